// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/waktu.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for minimal containers
)

// --------------------------------------------------------------------------
// Store backends
// --------------------------------------------------------------------------

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendMongo    = "mongo"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Key-value store
	StoreBackend string

	// Postgres backend
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// Redis backend
	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int

	// SQLite backend
	SQLitePath string

	// Mongo backend
	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Timetable provider
	ProviderBaseURL           string
	ProviderRequestsPerMinute int
	ProviderMaxAttempts       int
	ProviderRetryBase         time.Duration

	// Location and calendar
	Timezone         string
	Location         *time.Location
	InitialLatitude  float64
	InitialLongitude float64
	InitialLabel     string
	HijriOffset      int

	// Reminders
	ReminderTitle       string
	TravelNotifications bool

	// Scheduler (cron specs, empty disables)
	SchedulerEnabled bool
	RefreshSchedule  string
	TickSchedule     string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreBackend: strings.ToLower(envOr("STORE_BACKEND", BackendSQLite)),

		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisUsername: envOr("REDIS_USERNAME", ""),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		SQLitePath: envOr("SQLITE_PATH", "data/waktu.db"),

		MongoURI:        envOr("MONGODB_URI", ""),
		MongoDatabase:   envOr("MONGODB_DATABASE", "waktu"),
		MongoCollection: envOr("MONGODB_COLLECTION", "settings"),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),
		LogLevel:    envLevel("LOG_LEVEL", slog.LevelInfo),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		ProviderBaseURL:           envOr("WAKTUSOLAT_BASE_URL", "https://api.waktusolat.app"),
		ProviderRequestsPerMinute: envInt("WAKTUSOLAT_REQUESTS_PER_MINUTE", 30),
		ProviderMaxAttempts:       envInt("WAKTUSOLAT_MAX_ATTEMPTS", 3),
		ProviderRetryBase:         time.Duration(envInt("WAKTUSOLAT_RETRY_BASE_SECONDS", 2)) * time.Second,

		Timezone:         envOr("TIMEZONE", "Asia/Kuala_Lumpur"),
		InitialLatitude:  envFloat("LOCATION_LATITUDE", 1000),
		InitialLongitude: envFloat("LOCATION_LONGITUDE", 1000),
		InitialLabel:     envOr("LOCATION_LABEL", ""),
		HijriOffset:      envInt("HIJRI_OFFSET", 0),

		ReminderTitle:       envOr("REMINDER_TITLE", "Waktu Solat"),
		TravelNotifications: envBool("TRAVEL_NOTIFICATIONS", true),

		SchedulerEnabled: envBool("SCHEDULER_ENABLED", true),
		RefreshSchedule:  envOr("REFRESH_SCHEDULE", "5 0 * * *"),
		TickSchedule:     envOr("TICK_SCHEDULE", "*/15 * * * *"),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	switch cfg.StoreBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set for the postgres store backend")
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI must be set for the mongo store backend")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if cfg.HijriOffset < -2 || cfg.HijriOffset > 2 {
		return nil, fmt.Errorf("HIJRI_OFFSET must be within [-2, 2], got %d", cfg.HijriOffset)
	}
	if cfg.ProviderMaxAttempts < 1 {
		cfg.ProviderMaxAttempts = 1
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
