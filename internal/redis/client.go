// Package redis owns the shared Redis connection used by the remote cache
// tier and the invalidation fan-out.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "bookmark-manager/internal/common/errors"
)

const (
	defaultAddress     = "localhost:6379"
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
)

type Client struct {
	rdb    *redis.Client
	config *Config
}

type Config struct {
	Address     string        `json:"address"`
	Password    string        `json:"password"`
	DB          int           `json:"db"`
	PoolSize    int           `json:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// PoolStats is the subset of connection pool counters exposed on /health.
type PoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

// NewClient connects and pings Redis. The caller decides whether a failure is
// fatal; the cache runs memory-only without Redis.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if config == nil {
		return nil, apperrors.ConfigError("redis config is required")
	}

	if config.Address == "" {
		config.Address = defaultAddress
	}
	if config.PoolSize == 0 {
		config.PoolSize = defaultPoolSize
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = defaultDialTimeout
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        config.Address,
		Password:    config.Password,
		DB:          config.DB,
		PoolSize:    config.PoolSize,
		DialTimeout: config.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, apperrors.ConnectionError("failed to connect to Redis", err).
			WithContext("address", config.Address)
	}

	return &Client{
		rdb:    rdb,
		config: config,
	}, nil
}

// Redis exposes the underlying go-redis client for the cache adapter.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

func (c *Client) Address() string {
	return c.config.Address
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.DialTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.FromStoreError("ping", err)
	}
	return nil
}

func (c *Client) PoolStats() PoolStats {
	s := c.rdb.PoolStats()
	return PoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}
