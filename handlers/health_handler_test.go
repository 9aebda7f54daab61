package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/mashkanta-plus/leads-backend/services"
	"github.com/mashkanta-plus/leads-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHealthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	healthService := services.NewHealthService(nil, &config.Config{
		Server: config.ServerConfig{Version: "test"},
	})
	handler := NewHealthHandler(healthService)

	r := gin.New()
	r.GET("/health", handler.DetailedHealth)
	r.GET("/health/liveness", handler.LivenessCheck)
	r.GET("/health/readiness", handler.ReadinessCheck)
	return r
}

func TestLivenessCheck(t *testing.T) {
	r := setupHealthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/liveness", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReadinessCheck_DegradedStillReady(t *testing.T) {
	r := setupHealthRouter()

	// Nothing is configured, so every component reports degraded, but the
	// intake path still works and the probe must stay green.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/readiness", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var health types.HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, types.HealthStatusDegraded, health.Status)
}

func TestDetailedHealth(t *testing.T) {
	r := setupHealthRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var health types.HealthCheck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "test", health.Version)
	assert.Contains(t, health.Components, "rate_limiter")
	assert.Contains(t, health.Components, "sheets")
	assert.Contains(t, health.Components, "email")
}
