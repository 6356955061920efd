package analyticord

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig controls how the final flush on Stop retries failed submissions.
// The zero value disables retries.
type RetryConfig struct {
	// MaxRetries is the number of extra attempts per event type.
	MaxRetries int
	// BackoffBase is the base delay for exponential backoff (default 1s).
	BackoffBase time.Duration
	// BackoffMax caps the delay between attempts (default 30s).
	BackoffMax time.Duration
}

func (r RetryConfig) withDefaults() RetryConfig {
	if r.BackoffBase <= 0 {
		r.BackoffBase = time.Second
	}
	if r.BackoffMax <= 0 {
		r.BackoffMax = 30 * time.Second
	}
	return r
}

// shouldRetry returns true if the error is retryable.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}

// retryDelay honours Retry-After when the server sent one and falls back
// to backoffDelay otherwise.
func retryDelay(cfg RetryConfig, attempt int, err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		if apiErr.RetryAfter > cfg.BackoffMax {
			return cfg.BackoffMax
		}
		return apiErr.RetryAfter
	}
	return backoffDelay(cfg, attempt)
}

// backoffDelay doubles BackoffBase per attempt, adds up to one BackoffBase
// of jitter and caps the result at BackoffMax.
func backoffDelay(cfg RetryConfig, attempt int) time.Duration {
	base := float64(cfg.BackoffBase)
	jitter := rand.Float64() * base
	d := math.Min(base*math.Exp2(float64(attempt))+jitter, float64(cfg.BackoffMax))
	return time.Duration(d)
}
