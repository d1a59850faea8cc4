package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	AdminJWTSecret     string
	CORSAllowedOrigins []string

	CurrencyCode string

	SettingsCacheTTL   time.Duration
	DonorTotalCacheTTL time.Duration
	IdempotencyTTL     time.Duration

	// QuoteRateLimit uses the <limit>-<period> notation, e.g. "120-M".
	QuoteRateLimit string

	EmailEnabled  bool
	EmailFrom     string
	ResendAPIKey  string
	ResendBaseURL string

	MilestoneSweepInterval time.Duration
	MilestoneLockTTL       time.Duration
	WorkerConcurrency      int

	CircuitEmailMinRequests int
	CircuitEmailFailureRate float64
	CircuitEmailOpenFor     time.Duration
	OutboundTimeout         time.Duration
	RetryBase               time.Duration
	RetryMaxAttempts        int
	RetryJitterPercent      float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		AdminJWTSecret:     k.String("ADMIN_JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CurrencyCode: valueOrDefault(strings.ToLower(k.String("CURRENCY_CODE")), "usd"),

		SettingsCacheTTL:   parseDuration(k.String("SETTINGS_CACHE_TTL"), "5m"),
		DonorTotalCacheTTL: parseDuration(k.String("DONOR_TOTAL_CACHE_TTL"), "1m"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		QuoteRateLimit: valueOrDefault(k.String("QUOTE_RATE_LIMIT"), "120-M"),

		EmailEnabled:  parseBool(k.String("EMAIL_ENABLED")),
		EmailFrom:     valueOrDefault(k.String("EMAIL_FROM"), "receipts@printpowerpurpose.com"),
		ResendAPIKey:  k.String("RESEND_API_KEY"),
		ResendBaseURL: valueOrDefault(k.String("RESEND_BASE_URL"), "https://api.resend.com"),

		MilestoneSweepInterval: parseDuration(k.String("MILESTONE_SWEEP_INTERVAL"), "1m"),
		MilestoneLockTTL:       parseDuration(k.String("MILESTONE_LOCK_TTL"), "30s"),
		WorkerConcurrency:      parseInt(k.String("WORKER_CONCURRENCY"), 4),

		CircuitEmailMinRequests: parseInt(k.String("CIRCUIT_EMAIL_MIN_REQUESTS"), 10),
		CircuitEmailFailureRate: parseFloat(k.String("CIRCUIT_EMAIL_FAILURE_RATE"), 0.5),
		CircuitEmailOpenFor:     parseDuration(k.String("CIRCUIT_EMAIL_OPEN_FOR"), "30s"),
		OutboundTimeout:         parseDuration(k.String("OUTBOUND_TIMEOUT"), "10s"),
		RetryBase:               parseDuration(k.String("RETRY_BASE"), "200ms"),
		RetryMaxAttempts:        parseInt(k.String("RETRY_MAX_ATTEMPTS"), 3),
		RetryJitterPercent:      parseFloat(k.String("RETRY_JITTER_PERCENT"), 0.2),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("ADMIN_JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
