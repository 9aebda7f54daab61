package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/services"
)

// LeadRateLimiter applies the sliding-window limit to the lead intake
// endpoint, keyed by client IP. Two failure modes deliberately fail open:
// an unprovisioned backend (warning logged each time) and a limiter error
// (availability over strictness).
func LeadRateLimiter(limiter services.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		if !limiter.Enabled() {
			log.Warnw("Rate limiting disabled - Redis not configured")
			c.Next()
			return
		}

		ip := ClientIP(c)

		result, err := limiter.Limit(c.Request.Context(), ip)
		if err != nil {
			log.Errorw("Rate limit check failed, allowing request", "error", err, "ip", ip)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", result.Reset.UTC().Format(time.RFC3339))

		if !result.Allowed {
			retryAfter := int(time.Until(result.Reset).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			log.Warnw("Rate limit exceeded", "ip", ip, "reset", result.Reset)
			_ = c.Error(apperrors.RateLimitExceeded(retryAfter))
			c.Abort()
			return
		}

		c.Next()
	}
}
