package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces backend calls. Each key (the provider name in practice)
// gets its own token bucket, created on first use.
type Limiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewLimiter returns a limiter allowing rps calls per second per key.
// rps <= 0 means unlimited; burst is at least 1.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		buckets: map[string]*rate.Limiter{},
	}
	if rps <= 0 {
		l.limit = rate.Inf
	}
	return l
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}

// Wait blocks until key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.bucket(key).Wait(ctx)
}

// Allow takes a token for key if one is available right now
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// WaitWithDelay takes a token for key, then sleeps for extra
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, extra time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}
	return sleep(ctx, extra)
}

// sleep waits for d unless ctx ends first
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
