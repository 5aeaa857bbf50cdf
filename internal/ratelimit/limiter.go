// Package ratelimit throttles the operator endpoints that mutate the cache.
package ratelimit

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	apperrors "bookmark-manager/internal/common/errors"
)

// Config represents rate limiter configuration
type Config struct {
	RequestsPerSecond float64       `json:"requests_per_second"`
	BurstSize         int           `json:"burst_size"`
	Enabled           bool          `json:"enabled"`
	IdleTimeout       time.Duration `json:"idle_timeout"`
}

// Validate fills defaults and rejects unusable values
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return apperrors.ConfigError("rate limit requests per second must be positive")
	}
	if c.BurstSize <= 0 {
		c.BurstSize = int(c.RequestsPerSecond)
		if c.BurstSize < 1 {
			c.BurstSize = 1
		}
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 5 * time.Minute
	}
	return nil
}

// Limiter hands out one token bucket per key. Buckets idle for longer than
// IdleTimeout are dropped.
type Limiter struct {
	config  Config
	mu      sync.Mutex
	buckets *gocache.Cache
}

// NewLimiter creates a keyed limiter using golang.org/x/time/rate
func NewLimiter(config Config) (*Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Limiter{
		config:  config,
		buckets: gocache.New(config.IdleTimeout, config.IdleTimeout),
	}, nil
}

// Allow reports whether a request for key may proceed now
func (l *Limiter) Allow(key string) bool {
	if !l.config.Enabled {
		return true
	}
	return l.bucket(key).Allow()
}

// Wait blocks until key has a token or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if !l.config.Enabled {
		return nil
	}
	return l.bucket(key).Wait(ctx)
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.buckets.Get(key); ok {
		// Touch to extend the idle window.
		l.buckets.SetDefault(key, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(rate.Limit(l.config.RequestsPerSecond), l.config.BurstSize)
	l.buckets.SetDefault(key, limiter)
	return limiter
}

// Stats returns rate limiter statistics
func (l *Limiter) Stats() map[string]interface{} {
	return map[string]interface{}{
		"enabled":             l.config.Enabled,
		"requests_per_second": l.config.RequestsPerSecond,
		"burst_size":          l.config.BurstSize,
		"active_keys":         l.buckets.ItemCount(),
	}
}
