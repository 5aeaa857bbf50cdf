package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bookmark-manager/internal/cache"
	"bookmark-manager/internal/common/logging"
	"bookmark-manager/internal/config"
	"bookmark-manager/internal/ratelimit"
	"bookmark-manager/internal/redis"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	RedisClient *redis.Client
	Cache       *cache.Service
	RateLimiter *ratelimit.Limiter
	Registry    *prometheus.Registry
	Logger      logging.Logger

	stopListener context.CancelFunc
}

// New creates a new application instance with all dependencies. Redis is
// optional: when it cannot be reached the cache runs memory-only.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:       cfg,
		Registry:     prometheus.NewRegistry(),
		Logger:       logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
		stopListener: func() {},
	}

	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if err := app.initializeRedis(ctx); err != nil {
		app.Logger.Warn("Redis initialization failed, continuing with memory-only cache",
			logging.Err(err))
	}

	app.initializeCache()

	if err := app.initializeRateLimiter(); err != nil {
		return nil, err
	}

	return app, nil
}

// Shutdown stops invalidation listeners, flushes pending cache writes and
// releases the Redis connection.
func (app *App) Shutdown(ctx context.Context) error {
	app.stopListener()

	done := make(chan struct{})
	go func() {
		app.Cache.Close()
		app.Cache.WaitListeners()
		close(done)
	}()

	select {
	case <-done:
		app.Logger.Info("Cache drained")
	case <-ctx.Done():
		app.Logger.Warn("Timed out waiting for cache writes to drain")
	}

	if app.RedisClient != nil {
		if err := app.RedisClient.Close(); err != nil {
			return err
		}
	}
	return nil
}
