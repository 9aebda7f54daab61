package services

import (
	"context"
	"time"

	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// HealthService reports the state of the components this service depends on.
// Redis being down only degrades health (rate limiting fails open); missing
// spreadsheet or email credentials degrade the features that need them.
type HealthService struct {
	redisClient *redis.Client
	cfg         *config.Config
	log         *zap.SugaredLogger
}

func NewHealthService(redisClient *redis.Client, cfg *config.Config) *HealthService {
	return &HealthService{
		redisClient: redisClient,
		cfg:         cfg,
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	rateLimiter := h.checkRateLimiter(ctx)
	components["rate_limiter"] = rateLimiter
	if rateLimiter.Status == types.HealthStatusDegraded {
		overallStatus = types.HealthStatusDegraded
	}

	sheets := checkConfigured(h.cfg.Sheets.Configured(), "Spreadsheet credentials missing")
	components["sheets"] = sheets
	if sheets.Status == types.HealthStatusDegraded {
		overallStatus = types.HealthStatusDegraded
	}

	email := checkConfigured(h.cfg.Email.Configured(), "Email credentials missing")
	components["email"] = email
	if email.Status == types.HealthStatusDegraded {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.cfg.Server.Version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// checkRateLimiter pings Redis when provisioned. A down or unprovisioned
// backend is degraded, not down: lead intake keeps working without it.
func (h *HealthService) checkRateLimiter(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Rate limiting disabled - Redis not configured",
		}
	}

	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{Status: types.HealthStatusUp}
}

func checkConfigured(configured bool, details string) types.HealthComponent {
	if !configured {
		return types.HealthComponent{
			Status:  types.HealthStatusDegraded,
			Details: details,
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
