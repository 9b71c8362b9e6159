// Package cli carries the bootstrap shared by the command binaries:
// environment loading, logger setup and hub client construction.
package cli

import (
	"encoding/json"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"anymarket-cloner/internal/anymarket"
	"anymarket-cloner/internal/config"
)

// Init loads .env (when present), reads the configuration and builds the
// process logger.
func Init() (*config.Config, *logrus.Logger) {
	logger := logrus.New()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	}

	cfg := config.Load()
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return cfg, logger
}

// NewClient builds a hub client for one account token using the configured
// retry policy and timeout.
func NewClient(cfg *config.Config, token string, logger *logrus.Logger) *anymarket.Client {
	retrier := anymarket.NewRetrier(&anymarket.RetryConfig{
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
	})
	return anymarket.NewClient(cfg.BaseURL, token,
		anymarket.WithTimeout(cfg.RequestTimeout),
		anymarket.WithRetrier(retrier),
		anymarket.WithLogger(logrus.NewEntry(logger)),
	)
}

// Preview logs the final payload about to be submitted, for auditing.
func Preview(logger *logrus.Logger, product *anymarket.Product) {
	if !logger.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	payload, err := json.MarshalIndent(product, "", "  ")
	if err != nil {
		return
	}
	logger.Debugf("final payload:\n%s", payload)
}
