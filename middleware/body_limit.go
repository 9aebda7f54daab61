package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
)

// MaxBodyBytes is the fixed ceiling for POST request bodies.
const MaxBodyBytes int64 = 10 * 1024 // 10KB

// BodySizeLimit rejects oversized POST bodies with 413 before any parsing or
// validation runs. The declared Content-Length is checked first; bodies
// without a usable length (chunked transfer) are read up to the limit, and
// the consumed bytes are restored for the handler.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			_ = c.Error(apperrors.RequestTooLarge(c.Request.ContentLength, maxBytes))
			c.Abort()
			return
		}

		if c.Request.Body != nil {
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBytes+1))
			if err != nil {
				_ = c.Error(apperrors.InternalServerError("failed to read request body"))
				c.Abort()
				return
			}

			if int64(len(body)) > maxBytes {
				_ = c.Error(apperrors.RequestTooLarge(int64(len(body)), maxBytes))
				c.Abort()
				return
			}

			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()
	}
}
