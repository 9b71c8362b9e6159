package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANYMARKET_TOKEN", "tok-1")

	cfg := Load()

	assert.Equal(t, "tok-1", cfg.Token)
	assert.Equal(t, "tok-1", cfg.DestToken, "destination defaults to the source account")
	assert.Equal(t, "https://api.anymarket.com.br/v2", cfg.BaseURL)
	assert.Equal(t, "max", cfg.Aggregation)
	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, time.Second, cfg.RequestDelay)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANYMARKET_TOKEN", "tok-1")
	t.Setenv("ANYMARKET_TOKEN_DEST", "tok-2")
	t.Setenv("STOCK_LOCAL_ID", "45479")
	t.Setenv("COST_AGGREGATION", "avg")
	t.Setenv("MAX_RETRIES", "7")
	t.Setenv("BACKOFF_BASE_SEC", "0.5")
	t.Setenv("REQUEST_DELAY", "2.5")
	t.Setenv("DEFAULT_CATEGORY_ID", "3598455")

	cfg := Load()

	assert.Equal(t, "tok-2", cfg.DestToken)
	assert.Equal(t, int64(45479), cfg.StockLocalID)
	assert.Equal(t, "avg", cfg.Aggregation)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.BackoffBase)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestDelay)
	assert.Equal(t, int64(3598455), cfg.DefaultCategoryID)
}

func TestLoadIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("ANYMARKET_TOKEN", "tok-1")
	t.Setenv("MAX_RETRIES", "many")
	t.Setenv("BACKOFF_BASE_SEC", "a while")

	cfg := Load()

	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, 1500*time.Millisecond, cfg.BackoffBase)
}

func TestValidateRequiresToken(t *testing.T) {
	t.Setenv("ANYMARKET_TOKEN", "")

	cfg := Load()

	assert.ErrorContains(t, cfg.Validate(), "ANYMARKET_TOKEN")
}
