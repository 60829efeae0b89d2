// pkg/ratelimit/retry_test.go
package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		BaseDelay:     time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	v, err := Retry(context.Background(), fastRetry(3), "op", func(context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, calls)
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	// k transient failures are followed by exactly k+1 calls.
	calls := 0
	v, err := Retry(context.Background(), fastRetry(5), "op", func(context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 3, calls)
}

func TestRetryExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("still failing")
	_, err := Retry(context.Background(), fastRetry(3), "op", func(context.Context) (int, error) {
		calls++
		return 0, last
	})
	require.ErrorIs(t, err, last)
	require.Equal(t, 3, calls)
}

func TestRetryNonRetryablePropagatesImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := fastRetry(5)
	cfg.Retryable = func(err error) bool { return !errors.Is(err, permanent) }

	calls := 0
	_, err := Retry(context.Background(), cfg, "op", func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, calls)
}

func TestRetryContextCancellation(t *testing.T) {
	cfg := fastRetry(3)
	cfg.BaseDelay = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, "op", func(context.Context) (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, 1, calls)
}

func TestDelayForGrowthAndCap(t *testing.T) {
	cfg := RetryConfig{
		BaseDelay:     time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
	require.Equal(t, time.Second, cfg.DelayFor(1))
	require.Equal(t, 2*time.Second, cfg.DelayFor(2))
	require.Equal(t, 4*time.Second, cfg.DelayFor(3))
	// Capped at MaxDelay from attempt 4 on.
	require.Equal(t, 5*time.Second, cfg.DelayFor(4))
	require.Equal(t, 5*time.Second, cfg.DelayFor(10))
}

func TestDelayForJitterBounds(t *testing.T) {
	cfg := RetryConfig{
		BaseDelay:     time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 2.0,
		Jitter:        true,
	}
	for i := 0; i < 100; i++ {
		d := cfg.DelayFor(2) // nominal 2s
		require.GreaterOrEqual(t, d, 1500*time.Millisecond)
		require.Less(t, d, 2500*time.Millisecond)
	}
}
