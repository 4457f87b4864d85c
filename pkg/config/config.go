package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultLocalUserID is the identity used by the CLI in local mode.
const DefaultLocalUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv  string
	Version string
	UserID  string

	// Logging
	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	// Database
	DatabaseURL      string
	DatabaseDriver   string
	SQLitePath       string
	DatabaseMaxConns int

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	JWTSecret        string
	JWTIssuer        string

	// Progress
	ProgressCacheEnabled bool
	ProgressCacheTTL     time.Duration
	StreakLookback       int
	ProgressDefaultWeeks int
	AnalyticsPolicyFile  string

	// MCP
	MCPAddr      string
	MCPAuthToken string
}

// Load loads configuration from environment variables, after reading a
// .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:  getEnv("APP_ENV", "development"),
		Version: getEnv("HABITLOG_VERSION", "dev"),
		UserID:  getEnv("HABITLOG_USER_ID", DefaultLocalUserID),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogFile:       getEnv("LOG_FILE", ""),
		LogMaxSizeMB:  getIntEnv("LOG_MAX_SIZE_MB", 50),
		LogMaxBackups: getIntEnv("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getIntEnv("LOG_MAX_AGE_DAYS", 28),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   getEnv("DATABASE_DRIVER", ""),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		HTTPAddr:         getEnv("HTTP_ADDR", "0.0.0.0:8080"),
		HTTPReadTimeout:  getDurationEnv("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: getDurationEnv("HTTP_WRITE_TIMEOUT", 15*time.Second),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTIssuer:        getEnv("JWT_ISSUER", ""),

		ProgressCacheEnabled: getBoolEnv("PROGRESS_CACHE_ENABLED", true),
		ProgressCacheTTL:     getDurationEnv("PROGRESS_CACHE_TTL", 5*time.Minute),
		StreakLookback:       getIntEnv("STREAK_LOOKBACK", 30),
		ProgressDefaultWeeks: getIntEnv("PROGRESS_DEFAULT_WEEKS", 12),
		AnalyticsPolicyFile:  getEnv("ANALYTICS_POLICY_FILE", ""),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := uuid.Parse(c.UserID); err != nil {
		errs = append(errs, fmt.Errorf("HABITLOG_USER_ID: %w", err))
	}
	if c.StreakLookback <= 0 {
		errs = append(errs, errors.New("STREAK_LOOKBACK must be positive"))
	}
	if c.ProgressDefaultWeeks < 1 || c.ProgressDefaultWeeks > 52 {
		errs = append(errs, errors.New("PROGRESS_DEFAULT_WEEKS must be between 1 and 52"))
	}
	if c.DatabaseMaxConns <= 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be positive"))
	}
	if c.IsProduction() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	return errors.Join(errs...)
}

// LocalUserID returns the configured local identity.
func (c *Config) LocalUserID() uuid.UUID {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
