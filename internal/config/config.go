// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds authentication and identity provider configuration.
type AuthConfig struct {
	IssuerURL      string   // OIDC issuer URL for JWKS discovery
	JWTSecret      string   // HS256 shared secret for local/dev JWT auth
	Audience       string   // required JWT audience claim (OIDC mode)
	AllowedIssuers []string // accepted issuers (defaults to [IssuerURL])
}

// OIDCEnabled returns true when an external identity provider is configured.
func (a *AuthConfig) OIDCEnabled() bool {
	return a.IssuerURL != ""
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.IssuerURL == "" && a.JWTSecret == "" {
		return fmt.Errorf("at least one of AUTH_ISSUER_URL or AUTH_JWT_SECRET must be set")
	}
	if a.IssuerURL != "" && a.Audience == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required when AUTH_ISSUER_URL is set")
	}
	return nil
}

// Config holds the configuration for the CRM backend.
type Config struct {
	DBPath     string // path to the SQLite database file
	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // "development" (default) or "production"

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins (default: ["*"])

	// Auth holds identity provider and authentication configuration.
	Auth AuthConfig

	// GDPR retention windows for soft-deleted rows.
	LeadRetentionDays    int    // default 730
	StudentRetentionDays int    // default 2555
	SweepSchedule        string // cron spec; empty disables the in-process sweep

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LeadRetention returns the lead retention window as a duration.
func (c *Config) LeadRetention() time.Duration {
	return time.Duration(c.LeadRetentionDays) * 24 * time.Hour
}

// StudentRetention returns the student retention window as a duration.
func (c *Config) StudentRetention() time.Duration {
	return time.Duration(c.StudentRetentionDays) * 24 * time.Hour
}

// LoadFromEnv loads configuration from environment variables, applying
// defaults and collecting warnings for suspicious values.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:     os.Getenv("DB_PATH"),
		ListenAddr: os.Getenv("LISTEN_ADDR"),
		LogLevel:   os.Getenv("LOG_LEVEL"),
		Env:        os.Getenv("ENV"),
		Auth: AuthConfig{
			IssuerURL: os.Getenv("AUTH_ISSUER_URL"),
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			Audience:  os.Getenv("AUTH_AUDIENCE"),
		},
		SweepSchedule: os.Getenv("SWEEP_SCHEDULE"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "visacrm.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}

	if issuers := os.Getenv("AUTH_ALLOWED_ISSUERS"); issuers != "" {
		cfg.Auth.AllowedIssuers = splitAndTrim(issuers)
	}

	cfg.RateLimitRPS = envFloat("RATE_LIMIT_RPS", 100, &cfg.Warnings)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", 200, &cfg.Warnings)
	cfg.LeadRetentionDays = envInt("GDPR_LEAD_RETENTION_DAYS", 730, &cfg.Warnings)
	cfg.StudentRetentionDays = envInt("GDPR_STUDENT_RETENTION_DAYS", 2555, &cfg.Warnings)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = splitAndTrim(origins)
	} else {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if cfg.IsProduction() && cfg.Auth.JWTSecret != "" && cfg.Auth.IssuerURL == "" {
		cfg.Warnings = append(cfg.Warnings, "production is running on a shared HS256 secret; configure AUTH_ISSUER_URL for OIDC")
	}

	if err := cfg.Auth.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envInt(key string, def int, warnings *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s=%q, using default %d", key, raw, def))
		return def
	}
	return v
}

func envFloat(key string, def float64, warnings *[]string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s=%q, using default %v", key, raw, def))
		return def
	}
	return v
}
