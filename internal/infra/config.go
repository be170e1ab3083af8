package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	APIHost            string
	APIKey             string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	APIRequestTimeout  time.Duration
	RateLimitPerMin    int
	WorkflowTTL        time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. API_HOST and API_KEY have no defaults: every
// remote call depends on them, so their absence fails here, before any
// network attempt.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		APIHost:            strings.TrimRight(os.Getenv("API_HOST"), "/"),
		APIKey:             os.Getenv("API_KEY"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		APIRequestTimeout:  time.Second * time.Duration(getEnvInt("API_REQUEST_TIMEOUT_SECONDS", 30)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		WorkflowTTL:        time.Minute * time.Duration(getEnvInt("WORKFLOW_TTL_MINUTES", 30)),
	}

	if cfg.APIHost == "" {
		return nil, fmt.Errorf("API_HOST is required")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
