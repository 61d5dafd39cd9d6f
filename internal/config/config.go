package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/TenureBot_Go/internal/domain"
	"github.com/osse101/TenureBot_Go/internal/validation"
)

// Config holds the application configuration
type Config struct {
	// HTTP
	Port   int    `validate:"min=1,max=65535"`
	APIKey string `validate:"required"`

	// Logging
	LogLevel    string
	LogFormat   string
	Environment string
	Version     string

	// Database
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	DBMaxConns int `validate:"min=1"`

	// Discord
	DiscordToken          string `validate:"required"`
	DiscordAppID          string `validate:"required"`
	DiscordGuildID        string `validate:"required"`
	DefaultRoleID         string `validate:"required"`
	NotificationChannelID string

	// Sweeps. WarningSweepInterval must stay at or below the narrowest
	// warning window or eligible records can be skipped entirely.
	ExpirySweepInterval  time.Duration `validate:"min=1m"`
	WarningSweepInterval time.Duration `validate:"min=1s,max=5m"`

	// Status cache
	StatusCacheTTL  time.Duration
	StatusCacheSize int
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		Version:     getEnv("VERSION", "dev"),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "tenurebot"),

		APIKey: getEnv("API_KEY", ""),

		DiscordToken:          getEnv("DISCORD_TOKEN", ""),
		DiscordAppID:          getEnv("DISCORD_APP_ID", ""),
		DiscordGuildID:        getEnv("DISCORD_GUILD_ID", ""),
		DefaultRoleID:         getEnv("DEFAULT_ROLE_ID", ""),
		NotificationChannelID: getEnv("NOTIFICATION_CHANNEL_ID", ""),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.DBMaxConns, err = getEnvInt("DB_MAX_CONNS", 10); err != nil {
		return nil, err
	}
	if cfg.StatusCacheSize, err = getEnvInt("STATUS_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}

	if cfg.ExpirySweepInterval, err = getEnvDuration("EXPIRY_SWEEP_INTERVAL", domain.DefaultExpirySweepInterval); err != nil {
		return nil, err
	}
	if cfg.WarningSweepInterval, err = getEnvDuration("WARNING_SWEEP_INTERVAL", domain.DefaultWarningSweepInterval); err != nil {
		return nil, err
	}
	if cfg.StatusCacheTTL, err = getEnvDuration("STATUS_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return parsed, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
