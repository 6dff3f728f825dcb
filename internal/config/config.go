package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	LogMode string

	// RedisURL is optional; rate limiting falls back to process memory.
	RedisURL      string
	APIRateLimit  RateLimit
	AuthRateLimit RateLimit
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool

	WellnessDemoMode  bool
	StrictFirstAction bool

	WorkerEnabled      bool
	WorkerPollInterval time.Duration
}

// RateLimit is a fixed window: at most Max requests per Window.
type RateLimit struct {
	Max    int
	Window time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		LogMode:              getenv("LOG_MODE", "dev"),
		RedisURL:             getenv("REDIS_URL", ""),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getenv("JWT_TTL", "24h")); err != nil {
		return cfg, fmt.Errorf("JWT_TTL: %w", err)
	}
	if cfg.APIRateLimit, err = ParseRateLimit(getenv("RATE_LIMIT_API", "100/15m")); err != nil {
		return cfg, fmt.Errorf("RATE_LIMIT_API: %w", err)
	}
	if cfg.AuthRateLimit, err = ParseRateLimit(getenv("RATE_LIMIT_AUTH", "10/1h")); err != nil {
		return cfg, fmt.Errorf("RATE_LIMIT_AUTH: %w", err)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(getenv("TRUST_PROXY", "false")); err != nil {
		return cfg, fmt.Errorf("TRUST_PROXY: %w", err)
	}
	if cfg.WellnessDemoMode, err = strconv.ParseBool(getenv("WELLNESS_DEMO_MODE", "false")); err != nil {
		return cfg, fmt.Errorf("WELLNESS_DEMO_MODE: %w", err)
	}
	if cfg.StrictFirstAction, err = strconv.ParseBool(getenv("STRICT_FIRST_ACTION", "false")); err != nil {
		return cfg, fmt.Errorf("STRICT_FIRST_ACTION: %w", err)
	}
	if cfg.WorkerEnabled, err = strconv.ParseBool(getenv("WORKER_ENABLED", "true")); err != nil {
		return cfg, fmt.Errorf("WORKER_ENABLED: %w", err)
	}
	if cfg.WorkerPollInterval, err = time.ParseDuration(getenv("WORKER_POLL_INTERVAL", "800ms")); err != nil {
		return cfg, fmt.Errorf("WORKER_POLL_INTERVAL: %w", err)
	}
	return cfg, nil
}

// ParseRateLimit reads "max/window", e.g. "100/15m".
func ParseRateLimit(s string) (RateLimit, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return RateLimit{}, fmt.Errorf("invalid rate limit %q", s)
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || max <= 0 {
		return RateLimit{}, fmt.Errorf("invalid rate limit max %q", parts[0])
	}
	window, err := time.ParseDuration(strings.TrimSpace(parts[1]))
	if err != nil || window <= 0 {
		return RateLimit{}, fmt.Errorf("invalid rate limit window %q", parts[1])
	}
	return RateLimit{Max: max, Window: window}, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
