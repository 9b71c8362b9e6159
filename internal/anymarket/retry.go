package anymarket

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// RetryConfig defines retry behavior for hub API calls
type RetryConfig struct {
	MaxRetries        int           // Maximum number of retry attempts
	BackoffBase       time.Duration // Base backoff duration
	MaxBackoff        time.Duration // Maximum backoff duration
	BackoffFactor     float64       // Multiplier for exponential backoff
	Jitter            float64       // Random jitter factor (0-1)
	RetryableStatuses []int         // HTTP status codes to retry
}

// DefaultRetryConfig returns the retry configuration the hub API tolerates
// well under its rate limits.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    4,
		BackoffBase:   1500 * time.Millisecond,
		MaxBackoff:    60 * time.Second,
		BackoffFactor: 2.0,
		RetryableStatuses: []int{
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		},
	}
}

// Retrier decides whether and how long to back off between attempts
type Retrier struct {
	config *RetryConfig
}

// NewRetrier creates a new retrier with the given config
func NewRetrier(config *RetryConfig) *Retrier {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.BackoffFactor <= 0 {
		config.BackoffFactor = 2.0
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 60 * time.Second
	}
	if len(config.RetryableStatuses) == 0 {
		config.RetryableStatuses = DefaultRetryConfig().RetryableStatuses
	}
	return &Retrier{config: config}
}

// MaxRetries returns the configured retry bound.
func (r *Retrier) MaxRetries() int {
	return r.config.MaxRetries
}

// ShouldRetry determines if a response should be retried.
// Network-level failures (statusCode 0) are always retryable.
func (r *Retrier) ShouldRetry(statusCode int, err error) bool {
	if err != nil && statusCode == 0 {
		return true
	}
	for _, code := range r.config.RetryableStatuses {
		if statusCode == code {
			return true
		}
	}
	return false
}

// Backoff calculates the wait before the given attempt is retried. A
// positive retryAfter (from the Retry-After header) takes precedence over
// the exponential schedule.
func (r *Retrier) Backoff(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return retryAfter
	}

	backoff := float64(r.config.BackoffBase) * math.Pow(r.config.BackoffFactor, float64(attempt))

	if r.config.Jitter > 0 {
		backoff += backoff * r.config.Jitter * (rand.Float64()*2 - 1)
	}

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	return time.Duration(backoff)
}

// Wait sleeps for the given duration or until the context is done.
func (r *Retrier) Wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// ParseRetryAfter extracts the Retry-After duration from an HTTP response
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	// Try parsing as seconds
	if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}

	// Try parsing as HTTP-date
	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}

	return 0
}
