package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	apperrors "bookmark-manager/internal/common/errors"
	"bookmark-manager/internal/common/logging"
)

// Service is the two-tier cache used by read and write paths. Construct one at
// startup with NewService and share the pointer; it is safe for concurrent use.
type Service struct {
	cfg     Config
	enabled atomic.Bool

	memory      *memoryTier
	remote      RemoteStore
	broadcaster Broadcaster
	tracker     *errorTracker

	logger  logging.Logger
	metrics Metrics
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	instanceID string
	loads      singleflight.Group
	inflight   sync.WaitGroup
	listeners  sync.WaitGroup
}

// NewService builds a Service from a resolved config. remote may be nil, in
// which case only the memory tier is used.
func NewService(cfg Config, remote RemoteStore, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg.Normalize(),
		remote:     remote,
		logger:     logging.NewNopLogger(),
		metrics:    NopMetrics(),
		now:        time.Now,
		instanceID: uuid.NewString(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.enabled.Store(s.cfg.Enabled)
	s.memory = newMemoryTier(s.cfg.Memory, s.now)
	s.tracker = newErrorTracker(s.cfg.ErrorThreshold, &s.enabled, s.logger, s.metrics)

	return s
}

// Config returns the declared policy the service was built with.
func (s *Service) Config() Config {
	return s.cfg
}

// Enabled reports the live state. It starts from Config.Enabled and can only
// go from true to false.
func (s *Service) Enabled() bool {
	return s.enabled.Load()
}

// ShouldCache reports whether a call for category would touch the cache right
// now. Callers use it to skip building cacheable payloads.
func (s *Service) ShouldCache(category Category) bool {
	return s.enabled.Load() && s.cfg.StrategyEnabled(category)
}

// Get looks key up in the memory tier and then the remote tier. A remote hit
// is copied into memory with the category TTL. Failures of either tier are
// recorded and reported as a miss. A remote payload that does not decode into
// T is a miss and is deleted.
//
// A memory hit returns the stored value itself, not a copy. Slices, maps and
// pointers must be treated as read-only by callers; a remote hit is always a
// freshly decoded value.
func Get[T any](ctx context.Context, s *Service, category Category, key string) (T, bool) {
	var zero T
	if !s.ShouldCache(category) {
		return zero, false
	}

	if v, ok := s.memory.get(key); ok {
		if typed, ok := v.(T); ok {
			s.recordHit(category, TierMemory)
			return typed, true
		}
	}

	if s.remote != nil {
		var out T
		var found bool
		err := s.remoteCall(ctx, "get", func(ctx context.Context) error {
			var err error
			found, err = s.remote.Get(ctx, key, &out)
			return err
		})
		if err == nil && found {
			s.memory.set(key, out, s.cfg.TTLFor(category))
			s.recordHit(category, TierRemote)
			return out, true
		}
		if apperrors.IsType(err, apperrors.ErrTypeSerialization) {
			// The stored payload does not decode into T; drop it so the
			// next Set replaces it.
			_ = s.remoteCall(ctx, "delete", func(ctx context.Context) error {
				return s.remote.Delete(ctx, key)
			})
		}
	}

	s.misses.Add(1)
	s.metrics.Miss(category)
	return zero, false
}

// Set writes value to the memory tier and, when configured, the remote tier.
// Remote failures are recorded, never returned. The memory tier keeps value by
// reference, so callers must not mutate it after Set.
func (s *Service) Set(ctx context.Context, category Category, key string, value any, opts ...SetOption) {
	if !s.ShouldCache(category) {
		return
	}

	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	ttl := s.cfg.TTLFor(category)
	if o.hasTTL {
		ttl = o.ttl
	}

	s.memory.set(key, value, ttl)

	if s.remote == nil {
		return
	}

	write := func(ctx context.Context) error {
		return s.remote.Set(ctx, key, value, ttl)
	}

	if o.async {
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			_ = s.remoteCall(context.WithoutCancel(ctx), "set", write)
		}()
		return
	}

	_ = s.remoteCall(ctx, "set", write)
}

// Delete removes key from both tiers. The remote delete is best-effort.
func (s *Service) Delete(ctx context.Context, key string) {
	s.memory.delete(key)

	if s.remote != nil {
		_ = s.remoteCall(ctx, "delete", func(ctx context.Context) error {
			return s.remote.Delete(ctx, key)
		})
	}

	s.publish(ctx, invalidateKey, key)
}

// InvalidationResult reports how many keys an Invalidate call removed per tier.
type InvalidationResult struct {
	Prefix string `json:"prefix"`
	Memory int    `json:"memory"`
	Remote int    `json:"remote"`
}

// Invalidate drops every key starting with prefix. Memory keys go first; the
// remote keyspace is then walked page by page. The walk is not a snapshot and
// stops at the first remote failure.
func (s *Service) Invalidate(ctx context.Context, prefix string) InvalidationResult {
	result := InvalidationResult{
		Prefix: prefix,
		Memory: s.memory.deletePrefix(prefix),
	}

	if s.remote != nil {
		result.Remote = s.invalidateRemote(ctx, prefix)
	}

	s.publish(ctx, invalidatePrefix, prefix)

	s.logger.Debug("Cache prefix invalidated",
		logging.String("prefix", prefix),
		logging.Int("memory_keys", result.Memory),
		logging.Int("remote_keys", result.Remote),
	)

	return result
}

func (s *Service) invalidateRemote(ctx context.Context, prefix string) int {
	scanner := s.remote.Scan(prefix, s.cfg.Remote.ScanCount)
	deleted := 0

	for {
		var page []string
		var more bool
		err := s.remoteCall(ctx, "scan", func(ctx context.Context) error {
			more = scanner.Next(ctx)
			page = scanner.Keys()
			return scanner.Err()
		})
		if err != nil || !more {
			return deleted
		}
		if len(page) == 0 {
			continue
		}

		err = s.remoteCall(ctx, "delete", func(ctx context.Context) error {
			return s.remote.Delete(ctx, page...)
		})
		if err != nil {
			return deleted
		}
		deleted += len(page)
	}
}

// Stats returns a snapshot of the live counters.
func (s *Service) Stats() Stats {
	hits := s.hits.Load()
	misses := s.misses.Load()

	strategies := make(map[Category]bool, len(s.cfg.Strategies))
	for c, on := range s.cfg.Strategies {
		strategies[c] = on
	}

	return Stats{
		Enabled:          s.enabled.Load(),
		Level:            s.cfg.Level,
		LevelName:        s.cfg.Level.String(),
		Hits:             hits,
		Misses:           misses,
		HitRate:          hitRate(hits, misses),
		MemoryEntryCount: s.memory.count(),
		Strategies:       strategies,
		RemoteErrors:     s.tracker.errors(),
		RemoteConfigured: s.remote != nil,
	}
}

// Close waits for outstanding asynchronous remote writes. It does not stop
// invalidation listeners; cancel their context for that.
func (s *Service) Close() {
	s.inflight.Wait()
}

func (s *Service) recordHit(category Category, tier Tier) {
	s.hits.Add(1)
	s.metrics.Hit(category, tier)
}

var errCacheDisabled = apperrors.InternalError("cache disabled", nil)

// remoteCall runs fn against the remote tier with the configured timeout and
// routes the outcome to the error tracker. Panics are converted to errors.
// Serialization errors are returned but never count toward the breaker.
func (s *Service) remoteCall(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	if !s.enabled.Load() {
		return errCacheDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Remote.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.InternalError(fmt.Sprintf("remote %s panicked: %v", op, r), nil).WithOp(op)
		}
		s.metrics.ObserveRemote(op, time.Since(start))
		switch {
		case err == nil:
			s.tracker.reset()
		case apperrors.IsType(err, apperrors.ErrTypeSerialization):
			// Caller payload problem, the store itself is healthy.
			s.logger.Debug("Cache value could not be serialized",
				logging.String("op", op),
				logging.Err(err),
			)
		default:
			s.tracker.record(op, err)
		}
	}()

	return fn(ctx)
}
