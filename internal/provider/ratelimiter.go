package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by providers that hit the same
// upstream. One token is restored every interval, up to burst.
type RateLimiter struct {
	mu       sync.Mutex
	tokens   int
	burst    int
	interval time.Duration
	last     time.Time
}

// NewRateLimiter allows burst calls immediately, then one per interval.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   burst,
		burst:    burst,
		interval: interval,
		last:     time.Now(),
	}
}

// TryAcquire consumes a token without blocking.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restore(time.Now())
	if r.tokens == 0 {
		return false
	}
	r.tokens--
	return true
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.TryAcquire() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

func (r *RateLimiter) restore(now time.Time) {
	elapsed := now.Sub(r.last)
	n := int(elapsed / r.interval)
	if n <= 0 {
		return
	}
	r.tokens += n
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.last = r.last.Add(time.Duration(n) * r.interval)
}
