package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	LogLevel string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	PoolSize       int
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration

	// ActiveCycleID is the savings cycle every lookup is scoped to.
	// Cycles are opened and closed by the administration tooling, not here.
	ActiveCycleID int64
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "3001"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "banco_warmi"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	var err error
	if cfg.PoolSize, err = getEnvInt("DB_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.ConnectTimeout, err = getEnvDuration("DB_CONNECT_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.QueryTimeout, err = getEnvDuration("DB_QUERY_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.ActiveCycleID, err = getEnvInt64("ACTIVE_CYCLE_ID", 1); err != nil {
		return nil, err
	}

	if cfg.DBHost == "" {
		return nil, fmt.Errorf("DB_HOST is required")
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("DB_NAME is required")
	}
	if cfg.PoolSize < 1 {
		return nil, fmt.Errorf("DB_POOL_SIZE must be at least 1, got %d", cfg.PoolSize)
	}
	if cfg.QueryTimeout <= 0 {
		return nil, fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %s", cfg.QueryTimeout)
	}

	return cfg, nil
}

// DSN builds the lib/pq connection string. connect_timeout is expressed in
// whole seconds because that is what the driver accepts.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
		int(c.ConnectTimeout.Seconds()),
	)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultVal int64) (int64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
