package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/config"
	apperrors "github.com/mashkanta-plus/leads-backend/errors"
)

// APICORSMiddleware enforces the CORS allow-list on API routes. Requests
// without an Origin header (curl, server-to-server) pass through untouched.
// With a non-empty allow-list, a disallowed origin is rejected with 403
// before the handler runs; allowed origins receive the Access-Control-Allow-*
// headers and preflight requests get an immediate 200.
func APICORSMiddleware(cfg *config.ServerConfig, env config.Environment) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       24 * time.Hour,
	}

	// No allow-list configured: CORS restriction is disabled entirely.
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		return cors.New(corsConfig)
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Non-browser clients carry no Origin; nothing to enforce.
		if origin == "" {
			c.Next()
			return
		}

		allowed := originAllowed(origin, cfg.AllowedOrigins, env)
		if !allowed {
			_ = c.Error(apperrors.OriginNotAllowed(origin))
			c.Abort()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", strings.Join(corsConfig.AllowMethods, ", "))
		c.Header("Access-Control-Allow-Headers", strings.Join(corsConfig.AllowHeaders, ", "))
		c.Header("Access-Control-Max-Age", "86400")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// originAllowed matches by hostname so http/https and port variants of a
// configured origin are treated alike, falling back to exact string match
// for entries that do not parse as URLs. Development additionally allows
// localhost for local form testing.
func originAllowed(origin string, allowedOrigins []string, env config.Environment) bool {
	if env == config.EnvDevelopment {
		if strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1") {
			return true
		}
	}

	originURL, originErr := url.Parse(origin)

	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == origin {
			return true
		}

		if originErr != nil {
			continue
		}

		if allowedURL, err := url.Parse(allowedOrigin); err == nil && allowedURL.Hostname() != "" {
			if allowedURL.Hostname() == originURL.Hostname() {
				return true
			}
		}
	}

	return false
}
