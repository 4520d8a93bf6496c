package rate

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/code-payments/decense/pkg/cache"
)

// Limiter limits operations based on a provided key.
type Limiter interface {
	Allow(key string) (bool, error)
}

type localRateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters cache.Cache
}

// NewLocalRateLimiter returns an in memory limiter that allows limit
// operations per second for each key. Bursts are capped at one second worth of
// operations, and at least one.
//
// At most maxKeys keys are tracked. The least recently used key is forgotten
// first, and starts over with a full burst when it is seen again.
func NewLocalRateLimiter(limit rate.Limit, maxKeys int) Limiter {
	burst := int(limit)
	if burst < 1 {
		burst = 1
	}
	if maxKeys < 1 {
		maxKeys = 1
	}

	return &localRateLimiter{
		limit:    limit,
		burst:    burst,
		limiters: cache.NewCache(maxKeys),
	}
}

// Allow implements limiter.Allow.
func (l *localRateLimiter) Allow(key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var limiter *rate.Limiter
	if cached, ok := l.limiters.Retrieve(key); ok {
		limiter = cached.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(l.limit, l.burst)
		if err := l.limiters.Insert(key, limiter, 1); err != nil {
			return false, err
		}
	}

	return limiter.Allow(), nil
}

// NoLimiter never limits operations
type NoLimiter struct {
}

// Allow implements limiter.Allow.
func (n *NoLimiter) Allow(key string) (bool, error) {
	return true, nil
}
