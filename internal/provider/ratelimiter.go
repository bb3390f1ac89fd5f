package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket shared by every dashboard using one provider.
// A nil *RateLimiter never blocks.
type RateLimiter struct {
	mu             sync.Mutex
	tokens         int
	maxTokens      int
	refillInterval time.Duration
	lastRefill     time.Time
}

// NewRateLimiter creates a limiter that allows a burst of maxTokens and
// regains one token per refillInterval.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:         maxTokens,
		maxTokens:      maxTokens,
		refillInterval: refillInterval,
		lastRefill:     time.Now(),
	}
}

// NewPerMinuteLimiter spreads perMinute requests evenly over a minute with a
// burst of the same size. It returns nil when perMinute <= 0.
func NewPerMinuteLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return NewRateLimiter(perMinute, time.Minute/time.Duration(perMinute))
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	for {
		r.mu.Lock()
		r.refill(time.Now())
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		wait := r.refillInterval - time.Since(r.lastRefill)
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RateLimiter) refill(now time.Time) {
	elapsed := now.Sub(r.lastRefill)
	gained := int(elapsed / r.refillInterval)
	if gained <= 0 {
		return
	}
	r.tokens = min(r.tokens+gained, r.maxTokens)
	r.lastRefill = r.lastRefill.Add(time.Duration(gained) * r.refillInterval)
}
