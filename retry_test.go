package analyticord

import (
	"errors"
	"testing"
	"time"
)

func TestShouldRetry(t *testing.T) {
	if shouldRetry(nil) {
		t.Error("nil should not be retryable")
	}
	if shouldRetry(Classify(map[string]any{"error": "DataValidationError"}, 400)) {
		t.Error("400 should not be retryable")
	}
	if shouldRetry(Classify(map[string]any{"error": "AuthFailed"}, 401)) {
		t.Error("401 should not be retryable")
	}
	if !shouldRetry(Classify(map[string]any{"error": "RateLimit"}, 429)) {
		t.Error("RateLimit should be retryable")
	}
	if !shouldRetry(Classify(nil, 503)) {
		t.Error("503 should be retryable")
	}
	if !shouldRetry(&ConnectionError{Op: "submit", Cause: errors.New("timeout")}) {
		t.Error("ConnectionError should be retryable")
	}
	if shouldRetry(&ConfigError{Op: "get_data", Err: ErrUserTokenRequired}) {
		t.Error("ConfigError should not be retryable")
	}
}

func TestBackoffDelayBounds(t *testing.T) {
	cfg := RetryConfig{BackoffBase: 10 * time.Millisecond, BackoffMax: 100 * time.Millisecond}
	for attempt := 0; attempt < 8; attempt++ {
		d := backoffDelay(cfg, attempt)
		min := cfg.BackoffBase << attempt
		if min > cfg.BackoffMax {
			min = cfg.BackoffMax
		}
		if d < min || d > cfg.BackoffMax {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", attempt, d, min, cfg.BackoffMax)
		}
	}
}

func TestRetryDelayHonoursRetryAfter(t *testing.T) {
	cfg := RetryConfig{BackoffBase: time.Millisecond, BackoffMax: 3 * time.Second}

	err := &APIError{Kind: KindRateLimit, Status: 429, RetryAfter: 2 * time.Second}
	if d := retryDelay(cfg, 0, err); d != 2*time.Second {
		t.Errorf("expected 2s, got %v", d)
	}

	err.RetryAfter = time.Minute
	if d := retryDelay(cfg, 0, err); d != cfg.BackoffMax {
		t.Errorf("expected Retry-After capped at %v, got %v", cfg.BackoffMax, d)
	}

	err.RetryAfter = 0
	if d := retryDelay(cfg, 0, err); d > 2*time.Millisecond {
		t.Errorf("expected backoff delay without Retry-After, got %v", d)
	}
}

func TestRetryConfigDefaults(t *testing.T) {
	r := RetryConfig{}.withDefaults()
	if r.BackoffBase != time.Second || r.BackoffMax != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", r)
	}
	if r.MaxRetries != 0 {
		t.Errorf("zero value must not retry, got MaxRetries=%d", r.MaxRetries)
	}
}
