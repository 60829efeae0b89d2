// pkg/ratelimit/retry.go
package ratelimit

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// RetryConfig drives exponential-backoff retries around a failure-prone
// operation (subprocess run, HTTP call).
//
// Retryable decides which errors trigger a retry; errors it rejects
// propagate immediately. A nil Retryable retries every error.
type RetryConfig struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	Jitter        bool
	Retryable     func(error) bool
}

// DefaultRetryConfig mirrors the conservative defaults used by the tool
// adapters: 3 attempts, 1s base delay doubling up to 60s, with jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		BaseDelay:     time.Second,
		MaxDelay:      60 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
}

// DelayFor returns the backoff delay before retry attempt k (1-indexed;
// k=1 is the first retry after the initial failure).
func (c RetryConfig) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(c.BaseDelay) * math.Pow(c.BackoffFactor, float64(attempt-1))
	if max := float64(c.MaxDelay); d > max {
		d = max
	}
	if c.Jitter {
		d *= 0.75 + rand.Float64()*0.5 // uniform in [0.75, 1.25)
	}
	return time.Duration(d)
}

func (c RetryConfig) retryable(err error) bool {
	if c.Retryable == nil {
		return true
	}
	return c.Retryable(err)
}

// Retry runs fn until it succeeds, a non-retryable error occurs, the
// configured attempts are exhausted, or the context is cancelled. The last
// error is always returned to the caller; retry never swallows a permanent
// failure.
func Retry[T any](ctx context.Context, cfg RetryConfig, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !cfg.retryable(err) {
			log.Debug().Str("op", op).Err(err).Msg("error not retryable, propagating")
			return zero, err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.DelayFor(attempt)
		log.Warn().Str("op", op).
			Int("attempt", attempt).Int("max_attempts", cfg.MaxAttempts).
			Dur("delay", delay).Err(err).
			Msg("attempt failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	log.Error().Str("op", op).Int("attempts", cfg.MaxAttempts).Err(lastErr).
		Msg("all attempts exhausted")
	return zero, lastErr
}
