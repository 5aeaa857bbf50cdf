// Package cache provides the two-tier cache used by the bookmark read paths.
//
// Reads check an in-process memory tier first and then a shared remote tier
// (Redis through github.com/go-redis/redis/v8). A remote hit is copied back
// into memory. Writes go to both tiers. The memory tier is backed by
// github.com/patrickmn/go-cache with its janitor disabled; entries expire
// lazily on read.
//
// Every call is scoped by a Category. A category is cached only when the
// service is enabled and the category's strategy is switched on, either by
// the cache level or by an explicit override.
//
// Remote failures never reach callers. They are counted, and after
// Config.ErrorThreshold consecutive failures the service disables itself
// until the process restarts.
//
// Usage:
//
//	store := cache.NewRedisStore(redisClient, cfg.Remote.KeyPrefix)
//	svc := cache.NewService(cfg, store,
//		cache.WithLogger(logger),
//		cache.WithBroadcaster(store),
//	)
//
//	key := cache.ListKey(userID, page, size)
//	if list, ok := cache.Get[[]Bookmark](ctx, svc, cache.CategoryDefaultList, key); ok {
//		return list, nil
//	}
//	list, err := repo.List(ctx, userID, page, size)
//	if err != nil {
//		return nil, err
//	}
//	svc.Set(ctx, cache.CategoryDefaultList, key, list)
//
//	// after a bookmark write
//	svc.Invalidate(ctx, cache.UserPrefix(userID))
package cache
