// Package ratelimiter provides per-key token buckets for request limits and
// write cooldowns.
package ratelimiter

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed manages one token bucket per key (user id, IP, ...). Buckets are
// created lazily and kept for the life of the process.
type Keyed struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewKeyed(limit rate.Limit, burst int) *Keyed {
	return &Keyed{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Every allows one event per interval with the given burst.
func Every(interval time.Duration, burst int) *Keyed {
	return NewKeyed(rate.Every(interval), burst)
}

func (k *Keyed) getLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	limiter, exists := k.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(k.limit, k.burst)
		k.limiters[key] = limiter
	}
	return limiter
}

func (k *Keyed) Allow(key string) bool {
	return k.getLimiter(key).Allow()
}

// Cooldown is a write-path gate. A denied write returns an error carrying
// the gate's marker, which writeerr later maps to a user-facing code; the
// marker is for our own normalizer, not for users.
type Cooldown struct {
	keyed  *Keyed
	marker string
}

func NewCooldown(interval time.Duration, burst int, marker string) *Cooldown {
	return &Cooldown{keyed: Every(interval, burst), marker: marker}
}

func (c *Cooldown) Check(userId int64) error {
	if c.keyed.Allow(fmt.Sprintf("user_%d", userId)) {
		return nil
	}
	return fmt.Errorf("%s: user %d", c.marker, userId)
}
