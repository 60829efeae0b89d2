// pkg/ratelimit/bucket_test.go
package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTokenBucketValidation(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		capacity float64
	}{
		{"zero rate", 0, 10},
		{"negative rate", -1, 10},
		{"zero capacity", 5, 0},
		{"negative capacity", 5, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenBucket(tt.rate, tt.capacity)
			require.Error(t, err)
		})
	}

	b, err := NewTokenBucket(5, 10)
	require.NoError(t, err)
	require.Equal(t, 5.0, b.Rate())
	require.Equal(t, 10.0, b.Capacity())
}

func TestTryAcquireDrainsToCapacity(t *testing.T) {
	b := MustTokenBucket(1, 3)
	require.True(t, b.TryAcquire(3))
	require.False(t, b.TryAcquire(1))
}

func TestAcquireWaitsForRefill(t *testing.T) {
	// rate 10/s with capacity 1: after draining, one token takes ~100ms.
	b := MustTokenBucket(10, 1)
	require.True(t, b.TryAcquire(1))

	start := time.Now()
	require.NoError(t, b.Acquire(context.Background(), 1))
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 80*time.Millisecond, "acquire returned before the refill")
}

func TestAcquireImmediateWhenTokensAvailable(t *testing.T) {
	b := MustTokenBucket(1, 5)
	start := time.Now()
	require.NoError(t, b.Acquire(context.Background(), 2))
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestAcquireContextCancellation(t *testing.T) {
	b := MustTokenBucket(0.1, 1) // refill would take 10s
	require.True(t, b.TryAcquire(1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := b.Acquire(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAvailableNeverExceedsCapacity(t *testing.T) {
	b := MustTokenBucket(1000, 2)
	time.Sleep(20 * time.Millisecond)
	require.LessOrEqual(t, b.Available(), 2.0)
}
