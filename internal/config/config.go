package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the cloning tools
type Config struct {
	// API
	Token     string // source account token
	DestToken string // destination account token; empty means same account
	BaseURL   string

	// Stock
	StockLocalID      int64
	Aggregation       string // max | min | avg
	DefaultCategoryID int64

	// Retry / pacing
	MaxRetries     int
	BackoffBase    time.Duration
	RequestDelay   time.Duration
	RequestTimeout time.Duration

	// Logging
	LogFormat string // text | json
	LogLevel  string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Token:     getEnv("ANYMARKET_TOKEN", ""),
		DestToken: getEnv("ANYMARKET_TOKEN_DEST", ""),
		BaseURL:   getEnv("ANYMARKET_URL", "https://api.anymarket.com.br/v2"),

		StockLocalID:      getEnvAsInt64("STOCK_LOCAL_ID", 0),
		Aggregation:       getEnv("COST_AGGREGATION", "max"),
		DefaultCategoryID: getEnvAsInt64("DEFAULT_CATEGORY_ID", 0),

		MaxRetries:     getEnvAsInt("MAX_RETRIES", 4),
		BackoffBase:    getEnvAsSeconds("BACKOFF_BASE_SEC", 1.5),
		RequestDelay:   getEnvAsSeconds("REQUEST_DELAY", 1.0),
		RequestTimeout: getEnvAsSeconds("REQUEST_TIMEOUT", 30),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DestToken == "" {
		cfg.DestToken = cfg.Token
	}
	return cfg
}

// Validate checks the fields no run can proceed without.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("ANYMARKET_TOKEN is required")
	}
	return nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsSeconds gets an environment variable holding a (possibly
// fractional) number of seconds, with a default value.
func getEnvAsSeconds(key string, defaultValue float64) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultValue * float64(time.Second))
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return time.Duration(defaultValue * float64(time.Second))
	}
	return time.Duration(floatValue * float64(time.Second))
}
