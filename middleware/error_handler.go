package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/types"
)

// genericErrorMessage is the localized fallback when an error carries no
// user-facing message of its own.
const genericErrorMessage = "אירעה שגיאה בעת עיבוד הבקשה"

// ErrorHandler converts errors attached to the gin context into the API's
// response contract: `{success:false, message: <Hebrew>, error: <English>}`.
// The English diagnostic is the error code or type, never raw upstream
// detail, so internal state cannot leak to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if appError, ok := err.(*apperrors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			c.JSON(statusCode, types.APIResponse{
				Success: false,
				Message: appError.Message,
				Error:   diagnostic(appError),
			})
			return
		}

		// Gin binding errors: malformed JSON, wrong field types.
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")

			c.JSON(http.StatusBadRequest, types.APIResponse{
				Success: false,
				Message: genericErrorMessage,
				Error:   "invalid request body",
			})
			return
		}

		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")

		c.JSON(http.StatusInternalServerError, types.APIResponse{
			Success: false,
			Message: genericErrorMessage,
			Error:   "internal server error",
		})
	}
}

func diagnostic(appError *apperrors.AppError) string {
	if appError.Code != "" {
		return appError.Code
	}
	return string(appError.Type)
}
