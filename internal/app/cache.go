package app

import (
	"context"

	"bookmark-manager/internal/cache"
	"bookmark-manager/internal/common/logging"
	"bookmark-manager/internal/metrics"
)

func (app *App) initializeCache() {
	cfg := app.Config.Cache
	logger := app.Logger.WithFields(logging.Field{Key: "component", Value: "cache"})

	opts := []cache.Option{
		cache.WithLogger(logger),
		cache.WithMetrics(metrics.NewCacheMetrics(app.Registry)),
	}

	var remote cache.RemoteStore
	if app.RedisClient != nil {
		store := cache.NewRedisStore(app.RedisClient.Redis(), cfg.Remote.KeyPrefix)
		remote = store
		opts = append(opts, cache.WithBroadcaster(store))
	}

	app.Cache = cache.NewService(cfg, remote, opts...)

	listenerCtx, cancel := context.WithCancel(context.Background())
	if err := app.Cache.StartListener(listenerCtx); err != nil {
		cancel()
		logger.Warn("Cache invalidation listener not started", logging.Err(err))
	} else {
		app.stopListener = cancel
	}

	strategies := make([]string, 0, len(cfg.Strategies))
	for _, c := range cache.Categories() {
		if cfg.StrategyEnabled(c) {
			strategies = append(strategies, c.String())
		}
	}

	logger.Info("Cache: Initialized",
		logging.Bool("enabled", cfg.Enabled),
		logging.String("level", cfg.Level.String()),
		logging.Strings("strategies", strategies),
		logging.Bool("memory_tier", cfg.Memory.Enabled),
		logging.Bool("remote_tier", remote != nil),
		logging.Int("error_threshold", cfg.ErrorThreshold),
	)
}
