package app

import (
	"context"

	"bookmark-manager/internal/common/logging"
	"bookmark-manager/internal/redis"
)

func (app *App) initializeRedis(ctx context.Context) error {
	if !app.Config.RedisEnabled() {
		app.Logger.Info("Redis: Not configured (cache runs memory-only, no cross-instance invalidation)")
		return nil
	}

	redisConfig := &redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       app.Config.RedisDBNumber(),
		PoolSize: app.Config.RedisPoolSizeNumber(),
	}

	redisClient, err := redis.NewClient(ctx, redisConfig)
	if err != nil {
		return err
	}

	app.RedisClient = redisClient
	app.Logger.Info("Redis: Connected",
		logging.String("address", app.Config.RedisAddress),
		logging.Int("db", redisConfig.DB),
		logging.Int("pool_size", redisConfig.PoolSize),
	)

	return nil
}
