package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/services"
	"github.com/mashkanta-plus/leads-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLimiter scripts the limiter decision so middleware behavior can be
// tested without Redis.
type stubLimiter struct {
	enabled bool
	result  services.RateLimitResult
	err     error
	lastKey string
}

func (s *stubLimiter) Enabled() bool { return s.enabled }

func (s *stubLimiter) Limit(ctx context.Context, key string) (services.RateLimitResult, error) {
	s.lastKey = key
	return s.result, s.err
}

func setupRateLimitRouter(limiter services.RateLimiterInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/api/leads", LeadRateLimiter(limiter), func(c *gin.Context) {
		c.JSON(http.StatusOK, types.APIResponse{Success: true})
	})
	return r
}

func TestLeadRateLimiter_Allowed(t *testing.T) {
	reset := time.Now().Add(15 * time.Minute)
	limiter := &stubLimiter{
		enabled: true,
		result:  services.RateLimitResult{Allowed: true, Limit: 10, Remaining: 7, Reset: reset},
	}
	r := setupRateLimitRouter(limiter)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "7", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, reset.UTC().Format(time.RFC3339), w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "203.0.113.7", limiter.lastKey)
}

func TestLeadRateLimiter_Denied(t *testing.T) {
	limiter := &stubLimiter{
		enabled: true,
		result: services.RateLimitResult{
			Allowed:   false,
			Limit:     10,
			Remaining: 0,
			Reset:     time.Now().Add(5 * time.Minute),
		},
	}
	r := setupRateLimitRouter(limiter)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "יותר מדי בקשות. אנא נסה שוב מאוחר יותר.", resp.Message)
}

func TestLeadRateLimiter_DisabledFailsOpen(t *testing.T) {
	limiter := &stubLimiter{enabled: false}
	r := setupRateLimitRouter(limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestLeadRateLimiter_BackendErrorFailsOpen(t *testing.T) {
	limiter := &stubLimiter{enabled: true, err: assert.AnError}
	r := setupRateLimitRouter(limiter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLeadRateLimiter_UnknownClientBucket(t *testing.T) {
	limiter := &stubLimiter{
		enabled: true,
		result:  services.RateLimitResult{Allowed: true, Limit: 10, Remaining: 9, Reset: time.Now()},
	}
	r := setupRateLimitRouter(limiter)

	// No forwarding headers at all: every such client shares one bucket.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/leads", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, UnknownClientIP, limiter.lastKey)
}
