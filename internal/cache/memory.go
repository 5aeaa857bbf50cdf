package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// entry is the value stored in the memory tier. It never leaves this file.
type entry struct {
	value     any
	expiresAt time.Time
}

// memoryTier is the in-process cache level. Expiry is evaluated lazily on read
// against the injected clock; the go-cache janitor is disabled.
type memoryTier struct {
	items         *gocache.Cache
	enabled       bool
	defaultMaxAge time.Duration
	now           func() time.Time
}

func newMemoryTier(cfg MemoryConfig, now func() time.Time) *memoryTier {
	maxAge := cfg.DefaultMaxAge
	if maxAge <= 0 {
		maxAge = DefaultMemoryMaxAge
	}
	return &memoryTier{
		items:         gocache.New(gocache.NoExpiration, 0),
		enabled:       cfg.Enabled,
		defaultMaxAge: maxAge,
		now:           now,
	}
}

func (m *memoryTier) get(key string) (any, bool) {
	if !m.enabled {
		return nil, false
	}

	raw, found := m.items.Get(key)
	if !found {
		return nil, false
	}

	e := raw.(*entry)
	if !m.now().Before(e.expiresAt) {
		m.items.Delete(key)
		return nil, false
	}
	return e.value, true
}

// set stores value for ttl; ttl <= 0 falls back to the default max-age.
func (m *memoryTier) set(key string, value any, ttl time.Duration) {
	if !m.enabled {
		return
	}
	if ttl <= 0 {
		ttl = m.defaultMaxAge
	}
	m.items.Set(key, &entry{value: value, expiresAt: m.now().Add(ttl)}, gocache.NoExpiration)
}

func (m *memoryTier) delete(key string) {
	m.items.Delete(key)
}

// scanPrefix lists keys starting with prefix, expired ones included.
func (m *memoryTier) scanPrefix(prefix string) []string {
	var keys []string
	for k := range m.items.Items() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (m *memoryTier) deletePrefix(prefix string) int {
	keys := m.scanPrefix(prefix)
	for _, k := range keys {
		m.items.Delete(k)
	}
	return len(keys)
}

func (m *memoryTier) count() int {
	if !m.enabled {
		return 0
	}
	return m.items.ItemCount()
}
