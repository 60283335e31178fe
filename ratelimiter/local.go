package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter enforces a token budget and a request budget, both
// replenished once per minute.
type RateLimiter struct {
	tokens   *bucket
	requests *bucket
}

// Ensure RateLimiter implements Limiter.
var _ Limiter = (*RateLimiter)(nil)

// New creates a rate limiter with per-minute token and request budgets.
// A budget of 0 disables that dimension.
func New(tokensPerMinute, requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		tokens:   newBucket(tokensPerMinute, time.Minute),
		requests: newBucket(requestsPerMinute, time.Minute),
	}
}

// TryConsume atomically checks capacity and consumes tokens if available.
func (rl *RateLimiter) TryConsume(numTokens int) bool {
	return rl.tokens.consume(numTokens) && rl.requests.consume(1)
}

// TimeUntilAvailable returns how long until the specified tokens would be
// available. This does not modify state.
func (rl *RateLimiter) TimeUntilAvailable(tokens int) time.Duration {
	tokenWait := rl.tokens.timeUntilAvailable(tokens)
	requestWait := rl.requests.timeUntilAvailable(1)
	if tokenWait > requestWait {
		return tokenWait
	}
	return requestWait
}

// WaitAndConsume waits until tokens are available (up to maxWait), then
// consumes them. If maxWait is 0, there is no limit on how long to wait.
// Returns an error if the context is cancelled or maxWait is exceeded.
func (rl *RateLimiter) WaitAndConsume(ctx context.Context, tokens int, maxWait time.Duration) error {
	waitDuration := rl.TimeUntilAvailable(tokens)

	if waitDuration > 0 {
		if maxWait > 0 && waitDuration > maxWait {
			return fmt.Errorf("rate limit wait time %v exceeds max wait %v", waitDuration, maxWait)
		}

		timer := time.NewTimer(waitDuration)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !rl.TryConsume(tokens) {
		return fmt.Errorf("failed to acquire tokens after waiting")
	}

	return nil
}

// bucket is a token bucket with full refills every interval and partial
// refills proportional to elapsed time. A zero capacity bucket is a no-op
// that always has room.
type bucket struct {
	mu         sync.Mutex
	capacity   int
	remaining  int
	interval   time.Duration
	lastRefill time.Time
}

func newBucket(capacity int, interval time.Duration) *bucket {
	return &bucket{
		capacity:   capacity,
		remaining:  capacity,
		interval:   interval,
		lastRefill: time.Now(),
	}
}

func (b *bucket) consume(tokens int) bool {
	if b.capacity <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())
	if tokens <= b.remaining {
		b.remaining -= tokens
		return true
	}
	return false
}

func (b *bucket) timeUntilAvailable(tokens int) time.Duration {
	if b.capacity <= 0 {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked(time.Now())
	if tokens <= b.remaining {
		return 0
	}

	needed := tokens - b.remaining
	refillRate := float64(b.capacity) / float64(b.interval)
	wait := time.Duration(float64(needed) / refillRate)

	// 10% buffer so the subsequent consume does not land short
	return wait + wait/10
}

// refillLocked replenishes the bucket based on time elapsed since the last
// refill. Caller must hold b.mu.
func (b *bucket) refillLocked(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed >= b.interval {
		b.remaining = b.capacity
		b.lastRefill = now
		return
	}
	if elapsed > 0 {
		replenished := int(float64(b.capacity) * (float64(elapsed) / float64(b.interval)))
		if replenished > 0 {
			b.remaining = min(b.capacity, b.remaining+replenished)
			b.lastRefill = now
		}
	}
}
