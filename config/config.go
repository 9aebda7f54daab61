// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/mashkanta-plus/leads-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	SiteURL        string      `mapstructure:"SITE_URL" yaml:"site_url"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// RedisConfig holds Redis connection details for the rate limiter.
// An empty Address means rate limiting runs disabled (fail-open).
type RedisConfig struct {
	Address  string `mapstructure:"ADDRESS" yaml:"address"`
	Password string `mapstructure:"PASSWORD" yaml:"password"`
	DB       int    `mapstructure:"DB" yaml:"db"`
	UseTLS   bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
}

// Configured reports whether a rate-limit backend was provisioned.
func (c *RedisConfig) Configured() bool {
	return c.Address != ""
}

// SheetsConfig holds Google Sheets service-account credentials and the target
// spreadsheet. All three fields are required for persistence to work.
type SheetsConfig struct {
	ServiceAccountEmail string `mapstructure:"SERVICE_ACCOUNT_EMAIL" yaml:"service_account_email"`
	PrivateKey          string `mapstructure:"PRIVATE_KEY" yaml:"private_key"`
	SpreadsheetID       string `mapstructure:"SPREADSHEET_ID" yaml:"spreadsheet_id"`
}

// Configured reports whether all spreadsheet credentials are present.
func (c *SheetsConfig) Configured() bool {
	return c.ServiceAccountEmail != "" && c.PrivateKey != "" && c.SpreadsheetID != ""
}

// SpreadsheetURL returns the browser URL of the configured spreadsheet, or ""
// when no spreadsheet ID is set.
func (c *SheetsConfig) SpreadsheetURL() string {
	if c.SpreadsheetID == "" {
		return ""
	}
	return "https://docs.google.com/spreadsheets/d/" + c.SpreadsheetID
}

// EmailConfig holds configuration for sending owner notifications via Resend.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	OwnerAddress string `mapstructure:"OWNER_ADDRESS" yaml:"owner_address"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
}

// Configured reports whether the notification feature has its required
// credentials (API key and destination).
func (c *EmailConfig) Configured() bool {
	return c.ResendAPIKey != "" && c.OwnerAddress != ""
}

// RateLimitConfig holds the sliding-window parameters for the lead endpoint.
type RateLimitConfig struct {
	// Requests allowed per window per client IP
	Requests int `mapstructure:"REQUESTS" yaml:"requests"`
	// Window length in minutes
	WindowMinutes int `mapstructure:"WINDOW_MINUTES" yaml:"window_minutes"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Redis     RedisConfig     `mapstructure:"REDIS" yaml:"redis"`
	Sheets    SheetsConfig    `mapstructure:"SHEETS" yaml:"sheets"`
	Email     EmailConfig     `mapstructure:"EMAIL" yaml:"email"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("REDIS.ADDRESS", "")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false) // Only enable TLS for managed Redis
	v.SetDefault("EMAIL.FROM_ADDRESS", "noreply@resend.dev")
	v.SetDefault("RATE_LIMIT.REQUESTS", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_MINUTES", 15)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables
	envBindings := [][2]string{
		// Server config
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.SITE_URL", "SITE_URL"},
		{"SERVER.VERSION", "VERSION"},
		// Redis config
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Google Sheets config
		{"SHEETS.SERVICE_ACCOUNT_EMAIL", "GOOGLE_SERVICE_ACCOUNT_EMAIL"},
		{"SHEETS.PRIVATE_KEY", "GOOGLE_PRIVATE_KEY"},
		{"SHEETS.SPREADSHEET_ID", "SPREADSHEET_ID"},
		// Email config
		{"EMAIL.FROM_ADDRESS", "RESEND_FROM_EMAIL"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.OWNER_ADDRESS", "OWNER_EMAIL"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		// Rate limit config
		{"RATE_LIMIT.REQUESTS", "RATE_LIMIT_REQUESTS"},
		{"RATE_LIMIT.WINDOW_MINUTES", "RATE_LIMIT_WINDOW_MINUTES"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	// Private keys arrive through env vars with escaped newlines.
	cfg.Sheets.PrivateKey = strings.ReplaceAll(cfg.Sheets.PrivateKey, `\n`, "\n")

	// ALLOWED_ORIGINS may arrive as a single comma-separated value.
	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)
	if cfg.Server.SiteURL != "" && !containsOrigin(cfg.Server.AllowedOrigins, cfg.Server.SiteURL) {
		cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, cfg.Server.SiteURL)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"sheets_configured", cfg.Sheets.Configured(),
		"email_configured", cfg.Email.Configured(),
		"rate_limit_configured", cfg.Redis.Configured(),
		"rate_limit", fmt.Sprintf("%d/%dm", cfg.RateLimit.Requests, cfg.RateLimit.WindowMinutes),
	)

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}

	if cfg.RateLimit.Requests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_MINUTES must be positive, got %d", cfg.RateLimit.WindowMinutes)
	}

	// Missing spreadsheet or email credentials are not fatal at startup: those
	// features fail closed per request. Production still gets a loud warning.
	if cfg.IsProduction() {
		log := logger.GetLogger()
		if !cfg.Sheets.Configured() {
			log.Warnw("Google Sheets credentials missing; lead persistence will fail")
		}
		if !cfg.Email.Configured() {
			log.Warnw("Resend credentials missing; owner notifications will fail")
		}
		if !cfg.Redis.Configured() {
			log.Warnw("Redis not configured; rate limiting is disabled")
		}
	}

	return nil
}

// splitOrigins normalizes an origins list that may contain comma-joined
// entries into one origin per element, trimming whitespace and empties.
func splitOrigins(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, origin := range strings.Split(entry, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

func containsOrigin(origins []string, origin string) bool {
	for _, o := range origins {
		if o == origin {
			return true
		}
	}
	return false
}
