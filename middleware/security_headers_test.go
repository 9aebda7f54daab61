package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/stretchr/testify/assert"
)

func securityHeadersResponse(env config.Environment) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Server: config.ServerConfig{Environment: env}}

	r := gin.New()
	r.Use(SecurityHeadersMiddleware(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	w := securityHeadersResponse(config.EnvDevelopment)

	tests := []struct {
		header   string
		expected string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"X-XSS-Protection", "1; mode=block"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Permissions-Policy", "camera=(), microphone=(), geolocation=(), interest-cohort=()"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, w.Header().Get(tt.header))
		})
	}

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Contains(t, csp, "object-src 'none'")
}

func TestSecurityHeadersMiddleware_HSTSOnlyInProduction(t *testing.T) {
	dev := securityHeadersResponse(config.EnvDevelopment)
	assert.Empty(t, dev.Header().Get("Strict-Transport-Security"))

	prod := securityHeadersResponse(config.EnvProduction)
	assert.Equal(t, "max-age=31536000; includeSubDomains; preload",
		prod.Header().Get("Strict-Transport-Security"))
}
