package cache

import (
	"context"
)

// Remember returns the cached value for key or, on a miss, calls load and
// caches its result. Concurrent misses for the same category and key share a
// single load. Load errors are returned as-is and nothing is cached.
func Remember[T any](ctx context.Context, s *Service, category Category, key string, load func(ctx context.Context) (T, error), opts ...SetOption) (T, error) {
	if !s.ShouldCache(category) {
		return load(ctx)
	}

	if v, ok := Get[T](ctx, s, category, key); ok {
		return v, nil
	}

	v, err, _ := s.loads.Do(string(category)+"|"+key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(ctx, category, key, value, opts...)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	// A nil interface result has no dynamic type; it comes back as the zero T.
	typed, _ := v.(T)
	return typed, nil
}
