package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/config"
)

// contentSecurityPolicy is the fixed CSP attached to every response. The
// allowances cover the analytics and font origins the landing page loads from.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' 'unsafe-eval' https://www.googletagmanager.com https://www.google-analytics.com",
	"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
	"font-src 'self' https://fonts.gstatic.com data:",
	"img-src 'self' data: https: blob:",
	"connect-src 'self' https://www.google-analytics.com",
	"frame-src 'self'",
	"object-src 'none'",
	"base-uri 'self'",
	"form-action 'self'",
	"frame-ancestors 'none'",
	"upgrade-insecure-requests",
}, "; ")

var permissionsPolicy = strings.Join([]string{
	"camera=()",
	"microphone=()",
	"geolocation=()",
	"interest-cohort=()",
}, ", ")

// SecurityHeadersMiddleware adds security-related HTTP headers to all responses.
// These headers help protect against common web vulnerabilities like clickjacking,
// XSS attacks, and MIME type sniffing.
func SecurityHeadersMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", contentSecurityPolicy)

		// X-Frame-Options: Prevents clickjacking attacks by disallowing the page
		// from being embedded in frames, iframes, or objects
		c.Header("X-Frame-Options", "DENY")

		// X-Content-Type-Options: Prevents MIME type sniffing by forcing browsers
		// to respect the declared Content-Type
		c.Header("X-Content-Type-Options", "nosniff")

		// X-XSS-Protection: Enables the browser's built-in XSS filter
		// (legacy header, but still useful for older browsers)
		c.Header("X-XSS-Protection", "1; mode=block")

		// Referrer-Policy: Controls how much referrer information is sent with requests
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Header("Permissions-Policy", permissionsPolicy)

		// Strict-Transport-Security (HSTS): Forces HTTPS connections for the
		// specified duration. Only enabled in production to avoid issues during
		// local development.
		if cfg.IsProduction() {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}
