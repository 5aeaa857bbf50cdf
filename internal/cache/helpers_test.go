package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// aggressiveConfig enables every category with default TTLs.
func aggressiveConfig() Config {
	cfg := DefaultConfig()
	cfg.Level = LevelAggressive
	cfg.Strategies = StrategiesForLevel(LevelAggressive)
	return cfg
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "test:"), mr
}

// mockRemote is a RemoteStore whose every call is recorded.
type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockRemote) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockRemote) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *mockRemote) Scan(prefix string, count int64) KeyScanner {
	args := m.Called(prefix, count)
	return args.Get(0).(KeyScanner)
}

// sliceScanner replays fixed pages and optionally fails after them.
type sliceScanner struct {
	pages [][]string
	fail  error
	pos   int
	page  []string
	err   error
}

func (s *sliceScanner) Next(context.Context) bool {
	if s.err != nil {
		return false
	}
	if s.pos >= len(s.pages) {
		s.err = s.fail
		return false
	}
	s.page = s.pages[s.pos]
	s.pos++
	return true
}

func (s *sliceScanner) Keys() []string { return s.page }
func (s *sliceScanner) Err() error     { return s.err }

type spyMetrics struct {
	mu           sync.Mutex
	hits         map[Tier]int
	misses       int
	remoteErrors map[string]int
	tripped      int
	observed     int
}

func newSpyMetrics() *spyMetrics {
	return &spyMetrics{
		hits:         map[Tier]int{},
		remoteErrors: map[string]int{},
	}
}

func (s *spyMetrics) Hit(_ Category, tier Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits[tier]++
}

func (s *spyMetrics) Miss(Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses++
}

func (s *spyMetrics) RemoteError(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteErrors[op]++
}

func (s *spyMetrics) Tripped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tripped++
}

func (s *spyMetrics) ObserveRemote(string, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observed++
}

func (s *spyMetrics) hitCount(tier Tier) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[tier]
}

func (s *spyMetrics) trippedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripped
}
