package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownClientIP is the sentinel used when no proxy header identifies the
// client. All such clients share one rate-limit bucket; under proxies that
// strip forwarding headers this coarsens the limit rather than opening it.
const UnknownClientIP = "unknown"

// ClientIP extracts the real client IP from proxy headers, in priority order:
// X-Forwarded-For (first hop), X-Real-IP, then the CDN header CF-Connecting-IP.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		// X-Forwarded-For can contain multiple IPs; take the first one
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	if cfIP := c.GetHeader("CF-Connecting-IP"); cfIP != "" {
		return strings.TrimSpace(cfIP)
	}

	return UnknownClientIP
}
