package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bookmark-manager/internal/common/errors"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	// Start miniredis server for testing
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	config := &Config{
		Address:  mr.Addr(),
		Password: "",
		DB:       0,
		PoolSize: 10,
	}

	client, err := NewClient(context.Background(), config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		client, err := NewClient(context.Background(), nil)
		assert.Nil(t, client)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})

	t.Run("applies defaults", func(t *testing.T) {
		mr := miniredis.RunT(t)
		config := &Config{Address: mr.Addr()}

		client, err := NewClient(context.Background(), config)
		require.NoError(t, err)
		defer client.Close()

		assert.Equal(t, defaultPoolSize, config.PoolSize)
		assert.Equal(t, defaultDialTimeout, config.DialTimeout)
		assert.Equal(t, mr.Addr(), client.Address())
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		client, err := NewClient(context.Background(), &Config{
			Address:     addr,
			DialTimeout: 200 * time.Millisecond,
		})
		assert.Nil(t, client)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))
	})

	t.Run("wrong password", func(t *testing.T) {
		mr := miniredis.RunT(t)
		mr.RequireAuth("correct")

		_, err := NewClient(context.Background(), &Config{Address: mr.Addr(), Password: "wrong"})
		assert.Error(t, err)
	})
}

func TestClient_Health(t *testing.T) {
	client, mr := setupTestRedis(t)

	assert.NoError(t, client.Health(context.Background()))

	mr.SetError("ERR down")
	err := client.Health(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConnection))
}

func TestClient_Redis(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Redis().Set(ctx, "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := client.PoolStats()
	assert.GreaterOrEqual(t, stats.TotalConns, uint32(1))
}
