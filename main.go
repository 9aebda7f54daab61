package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mashkanta-plus/leads-backend/config"
	"github.com/mashkanta-plus/leads-backend/handlers"
	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/mashkanta-plus/leads-backend/router"
	"github.com/mashkanta-plus/leads-backend/services"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Local development reads configuration from a .env file; in deployed
	// environments the variables are injected and the file is absent.
	_ = godotenv.Load()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() {
		_ = logger.Close()
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Redis backs the rate limiter only; without it the limiter runs
	// disabled (fail-open) and everything else works normally.
	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisOptions := &redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		if cfg.Redis.UseTLS {
			redisOptions.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		redisClient = redis.NewClient(redisOptions)
	} else {
		log.Warnw("Redis not configured; rate limiting is disabled")
	}

	// Services
	rateLimitService := services.NewRateLimitService(
		redisClient,
		cfg.RateLimit.Requests,
		time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute,
	)
	sheetsService := services.NewSheetsService(&cfg.Sheets)
	emailService := services.NewEmailService(&cfg.Email, &cfg.Sheets, sheetsService)
	healthService := services.NewHealthService(redisClient, cfg)

	// Handlers
	leadHandler := handlers.NewLeadHandler(sheetsService, emailService)
	healthHandler := handlers.NewHealthHandler(healthService)

	r := router.SetupRouter(router.Dependencies{
		Config:        cfg,
		LeadHandler:   leadHandler,
		HealthHandler: healthHandler,
		RateLimiter:   rateLimitService,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Infow("Shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Server shutdown failed", "error", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Errorw("Redis close failed", "error", err)
		}
	}

	log.Infow("Server stopped")
}
