package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"donorsetup/internal/domain"
)

const (
	ProfileBackendREST     = "rest"
	ProfileBackendPostgres = "postgres"
)

// Config represents tool configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	LogLevel         string
	SupabaseURL      string
	ServiceRoleKey   string
	HTTPTimeout      time.Duration
	PageSize         int
	ProfileBackend   string
	DatabaseURL      string
	Port             string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig reads the environment once. Missing credentials are reported as
// domain.ErrConfiguration so callers can exit before any remote call.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		SupabaseURL:      strings.TrimRight(getEnv("SUPABASE_URL", os.Getenv("NEXT_PUBLIC_SUPABASE_URL")), "/"),
		ServiceRoleKey:   strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_ROLE_KEY")),
		HTTPTimeout:      time.Second * time.Duration(getEnvInt("SUPABASE_HTTP_TIMEOUT_SECONDS", 0)),
		PageSize:         getEnvInt("SUPABASE_PAGE_SIZE", 1000),
		ProfileBackend:   strings.ToLower(getEnv("PROFILE_BACKEND", ProfileBackendREST)),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		Port:             getEnv("PORT", "54321"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL (or NEXT_PUBLIC_SUPABASE_URL) is required", domain.ErrConfiguration)
	}
	if cfg.ServiceRoleKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_SERVICE_ROLE_KEY is required", domain.ErrConfiguration)
	}

	switch cfg.ProfileBackend {
	case ProfileBackendREST:
	case ProfileBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%w: DATABASE_URL is required when PROFILE_BACKEND=postgres", domain.ErrConfiguration)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported PROFILE_BACKEND %q", domain.ErrConfiguration, cfg.ProfileBackend)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}

	return cfg, nil
}

// LoadServerConfig reads only the settings the local fake backend needs.
func LoadServerConfig() *Config {
	return &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		ServiceRoleKey:   strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_ROLE_KEY")),
		Port:             getEnv("PORT", "54321"),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
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
