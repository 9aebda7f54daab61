package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/mashkanta-plus/leads-backend/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func fullyConfigured() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Version: "test"},
		Sheets: config.SheetsConfig{
			ServiceAccountEmail: "leads@project.iam.gserviceaccount.com",
			PrivateKey:          "test-key",
			SpreadsheetID:       "sheet-123",
		},
		Email: config.EmailConfig{
			ResendAPIKey: "re_test_key",
			OwnerAddress: "owner@example.com",
		},
	}
}

func TestHealthService_AllUp(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	service := NewHealthService(client, fullyConfigured())
	health := service.CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusUp, health.Status)
	assert.Equal(t, types.HealthStatusUp, health.Components["rate_limiter"].Status)
	assert.Equal(t, types.HealthStatusUp, health.Components["sheets"].Status)
	assert.Equal(t, types.HealthStatusUp, health.Components["email"].Status)
	assert.Equal(t, "test", health.Version)
}

func TestHealthService_DegradedWithoutRedis(t *testing.T) {
	service := NewHealthService(nil, fullyConfigured())
	health := service.CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusDegraded, health.Status)
	assert.Equal(t, types.HealthStatusDegraded, health.Components["rate_limiter"].Status)
	assert.Equal(t, types.HealthStatusUp, health.Components["sheets"].Status)
}

func TestHealthService_DegradedWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	service := NewHealthService(client, fullyConfigured())
	health := service.CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusDegraded, health.Status)
	assert.Equal(t, "Redis connection failed", health.Components["rate_limiter"].Details)
}

func TestHealthService_DegradedWithoutCredentials(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := fullyConfigured()
	cfg.Sheets = config.SheetsConfig{}
	cfg.Email = config.EmailConfig{}

	service := NewHealthService(client, cfg)
	health := service.CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusDegraded, health.Status)
	assert.Equal(t, types.HealthStatusDegraded, health.Components["sheets"].Status)
	assert.Equal(t, types.HealthStatusDegraded, health.Components["email"].Status)
}
