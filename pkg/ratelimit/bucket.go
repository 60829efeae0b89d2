// pkg/ratelimit/bucket.go
// Package ratelimit provides token-bucket admission control and
// exponential-backoff retry for external tool invocations. Buckets are
// shared per tool name through a Registry so that many concurrent
// orchestrations draw from one budget.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenBucket is a mutex-guarded token-bucket rate limiter.
//
// It admits up to Capacity tokens, refilled at Rate tokens per second.
// Acquire suspends the calling goroutine until enough tokens are available
// or the context is cancelled; waiting never blocks unrelated goroutines.
type TokenBucket struct {
	rate     float64
	capacity float64

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewTokenBucket builds a bucket with the given refill rate (tokens/second)
// and capacity. Both must be positive.
func NewTokenBucket(rate, capacity float64) (*TokenBucket, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("ratelimit: rate must be > 0, got %v", rate)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("ratelimit: capacity must be > 0, got %v", capacity)
	}
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     capacity,
		lastRefill: time.Now(),
	}, nil
}

// MustTokenBucket is NewTokenBucket for static bucket tables; it panics on
// invalid parameters.
func MustTokenBucket(rate, capacity float64) *TokenBucket {
	b, err := NewTokenBucket(rate, capacity)
	if err != nil {
		panic(err)
	}
	return b
}

// Rate returns the refill rate in tokens per second.
func (b *TokenBucket) Rate() float64 { return b.rate }

// Capacity returns the maximum number of tokens the bucket holds.
func (b *TokenBucket) Capacity() float64 { return b.capacity }

// refill credits tokens for the elapsed time. Caller must hold b.mu.
func (b *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.rate)
	b.lastRefill = now
}

// Acquire consumes n tokens, waiting for the exact deficit refill time when
// the bucket is short. A cancelled context aborts the wait and returns
// ctx.Err(); the bucket state is left untouched in that case.
func (b *TokenBucket) Acquire(ctx context.Context, n float64) error {
	if n <= 0 {
		n = 1
	}
	for {
		b.mu.Lock()
		now := time.Now()
		b.refill(now)
		if b.tokens >= n {
			b.tokens -= n
			b.mu.Unlock()
			return nil
		}
		deficit := n - b.tokens
		wait := time.Duration(deficit / b.rate * float64(time.Second))
		b.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Re-check under the lock; another caller may have drained
			// the refilled tokens in the meantime.
		}
	}
}

// TryAcquire consumes n tokens without waiting. It reports whether the
// tokens were available.
func (b *TokenBucket) TryAcquire(n float64) bool {
	if n <= 0 {
		n = 1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	if b.tokens < n {
		return false
	}
	b.tokens -= n
	return true
}

// Available returns the current token count after refilling.
func (b *TokenBucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	return b.tokens
}
