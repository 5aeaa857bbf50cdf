package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemember(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once then serves from cache", func(t *testing.T) {
		svc := NewService(aggressiveConfig(), nil)
		var calls atomic.Int32
		load := func(context.Context) ([]int, error) {
			calls.Add(1)
			return []int{1, 2}, nil
		}

		for i := 0; i < 3; i++ {
			got, err := Remember(ctx, svc, CategoryDefaultList, "user:1:list:1:20", load)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2}, got)
		}
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		svc := NewService(aggressiveConfig(), nil)
		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "result", nil
		}

		var wg sync.WaitGroup
		results := make([]string, 10)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := Remember(ctx, svc, CategorySearch, "user:1:search:q", load)
				assert.NoError(t, err)
				results[i] = v
			}(i)
		}

		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, "result", r)
		}
	})

	t.Run("errors are not cached", func(t *testing.T) {
		svc := NewService(aggressiveConfig(), nil)
		var calls atomic.Int32
		load := func(context.Context) (int, error) {
			if calls.Add(1) == 1 {
				return 0, errors.New("database unavailable")
			}
			return 7, nil
		}

		_, err := Remember(ctx, svc, CategoryTagFilter, "user:1:tags:x", load)
		assert.Error(t, err)

		got, err := Remember(ctx, svc, CategoryTagFilter, "user:1:tags:x", load)
		require.NoError(t, err)
		assert.Equal(t, 7, got)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("disabled category always loads", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Strategies = StrategiesForLevel(LevelMinimal)
		svc := NewService(cfg, nil)
		var calls atomic.Int32
		load := func(context.Context) (int, error) {
			calls.Add(1)
			return 1, nil
		}

		for i := 0; i < 2; i++ {
			_, err := Remember(ctx, svc, CategorySearch, "user:1:search:q", load)
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, 0, svc.Stats().MemoryEntryCount)
	})

	t.Run("ttl option applies to stored value", func(t *testing.T) {
		clock := newFakeClock()
		svc := NewService(aggressiveConfig(), nil, WithClock(clock.Now))
		load := func(context.Context) (string, error) { return "v", nil }

		_, err := Remember(ctx, svc, CategoryPublicShare, "share:1", load, WithTTL(time.Second))
		require.NoError(t, err)

		clock.Advance(time.Second)
		_, ok := Get[string](ctx, svc, CategoryPublicShare, "share:1")
		assert.False(t, ok)
	})

	t.Run("nil interface result", func(t *testing.T) {
		svc := NewService(aggressiveConfig(), nil)
		load := func(context.Context) (any, error) { return nil, nil }

		var got any
		var err error
		require.NotPanics(t, func() {
			got, err = Remember(ctx, svc, CategorySearch, "user:1:search:none", load)
		})
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
