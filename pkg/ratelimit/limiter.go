package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per key
type RateLimiter struct {
	limiters map[string]*keyedLimiter
	limit    rate.Limit
	burst    int
	ttl      time.Duration // Time to keep inactive buckets (0 = forever)
	mu       sync.Mutex

	lastSweep time.Time
	now       func() time.Time
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter
// burst: Maximum number of requests allowed in a burst per key
// perSecond: Number of requests allowed per second per key
// ttl: Time to keep inactive buckets in memory (0 = forever)
func NewRateLimiter(burst int, perSecond float64, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*keyedLimiter),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		ttl:       ttl,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow reports whether a request for key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	_, ok := rl.Reserve(key)
	return ok
}

// Reserve consumes a token for key. When none is available it returns
// false and how long until one will be.
func (rl *RateLimiter) Reserve(key string) (time.Duration, bool) {
	now := rl.now()
	limiter := rl.get(key, now)

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return 0, false
	}
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// Reset forgets the bucket of key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.limiters, key)
}

// Size returns the number of tracked keys
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.sweepLocked(now)

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &keyedLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweepLocked drops buckets idle for longer than ttl, at most once per ttl
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if rl.ttl <= 0 || now.Sub(rl.lastSweep) < rl.ttl {
		return
	}
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.ttl {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}
