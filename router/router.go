package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/mashkanta-plus/leads-backend/handlers"
	"github.com/mashkanta-plus/leads-backend/middleware"
	"github.com/mashkanta-plus/leads-backend/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config        *config.Config
	LeadHandler   *handlers.LeadHandler
	HealthHandler *handlers.HealthHandler
	RateLimiter   services.RateLimiterInterface
	Logger        *zap.SugaredLogger
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	// Global Middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API Group: CORS allow-list applies to every /api route; the rate
	// limiter and body-size cap guard the intake endpoint itself, in that
	// order, so an exhausted client is told 429 before its body is read.
	api := r.Group("/api")
	api.Use(middleware.APICORSMiddleware(&deps.Config.Server, deps.Config.Server.Environment))
	{
		api.POST("/leads",
			middleware.LeadRateLimiter(deps.RateLimiter),
			middleware.BodySizeLimit(middleware.MaxBodyBytes),
			deps.LeadHandler.SubmitLead,
		)
	}

	return r
}
