package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "bookmark-manager/internal/common/errors"
)

func TestLimiter(t *testing.T) {
	config := Config{
		RequestsPerSecond: 1,
		BurstSize:         3,
		Enabled:           true,
	}

	limiter, err := NewLimiter(config)
	require.NoError(t, err)

	for i := 0; i < config.BurstSize; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d should be allowed", i)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "burst should be exhausted")
	assert.True(t, limiter.Allow("10.0.0.2"), "keys have independent buckets")
	assert.Equal(t, 2, limiter.Stats()["active_keys"])
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, err := NewLimiter(Config{Enabled: false})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("k"))
	}
	assert.NoError(t, limiter.Wait(context.Background(), "k"))
}

func TestLimiter_Wait(t *testing.T) {
	limiter, err := NewLimiter(Config{RequestsPerSecond: 1, BurstSize: 1, Enabled: true})
	require.NoError(t, err)

	require.True(t, limiter.Allow("k"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "k"))
}

func TestConfig_Validate(t *testing.T) {
	c := Config{Enabled: true, RequestsPerSecond: 0.5}
	require.NoError(t, c.Validate())
	assert.Equal(t, 1, c.BurstSize)
	assert.Equal(t, 5*time.Minute, c.IdleTimeout)

	bad := Config{Enabled: true}
	assert.True(t, apperrors.IsType(bad.Validate(), apperrors.ErrTypeConfig))
}

func TestHTTPMiddleware(t *testing.T) {
	limiter, err := NewLimiter(Config{RequestsPerSecond: 1, BurstSize: 2, Enabled: true})
	require.NoError(t, err)

	handler := HTTPMiddleware(limiter, IPKey)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/cache/invalidate?prefix=user:1:", nil)
		req.RemoteAddr = "192.0.2.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)

		if rr.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rr.Header().Get("Retry-After"))
			assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Limit"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIPKey(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr ipv4", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr ipv6", nil, "[2001:db8::1]:443", "2001:db8::1"},
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.1:80", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.1:80", "198.51.100.7"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, IPKey(req))
		})
	}
}
