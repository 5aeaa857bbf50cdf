package cache

import (
	"time"

	"github.com/samber/lo"
)

// Level is the coarse caching policy. It gates which categories are enabled by
// default; callers may use it as a hint for how much to cache.
type Level int

const (
	LevelNone Level = iota
	LevelMinimal
	LevelDefault
	LevelAggressive
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelMinimal:
		return "minimal"
	case LevelDefault:
		return "default"
	case LevelAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// Clamp forces the level into the 0..3 range.
func (l Level) Clamp() Level {
	if l < LevelNone {
		return LevelNone
	}
	if l > LevelAggressive {
		return LevelAggressive
	}
	return l
}

const (
	DefaultMemoryMaxAge        = 300 * time.Second
	DefaultRemoteTimeout       = 100 * time.Millisecond
	DefaultScanCount     int64 = 100
	DefaultErrorThreshold      = 10
	DefaultKeyPrefix           = "bookmarks:cache:"
	DefaultInvalidationChannel = "bookmarks:cache:invalidate"
)

// MemoryConfig configures the in-process tier.
type MemoryConfig struct {
	Enabled       bool          `json:"enabled"`
	DefaultMaxAge time.Duration `json:"default_max_age"`
}

// RemoteConfig configures how the service talks to the remote tier.
type RemoteConfig struct {
	Timeout             time.Duration `json:"timeout"`
	ScanCount           int64         `json:"scan_count"`
	KeyPrefix           string        `json:"key_prefix"`
	InvalidationChannel string        `json:"invalidation_channel"`
}

// Config is the declared cache policy. It is resolved once at startup and not
// mutated afterwards; the live enabled state is owned by Service.
type Config struct {
	Enabled        bool                       `json:"enabled"`
	Level          Level                      `json:"level"`
	Strategies     map[Category]bool          `json:"strategies"`
	TTL            map[Category]time.Duration `json:"ttl"`
	Memory         MemoryConfig               `json:"memory"`
	Remote         RemoteConfig               `json:"remote"`
	ErrorThreshold int                        `json:"error_threshold"`
}

// StrategiesForLevel returns the default per-category enable flags for a level.
func StrategiesForLevel(level Level) map[Category]bool {
	on := map[Category]bool{}
	switch level.Clamp() {
	case LevelMinimal:
		on[CategoryDefaultList] = true
		on[CategoryPublicShare] = true
	case LevelDefault:
		on[CategoryDefaultList] = true
		on[CategoryTagFilter] = true
		on[CategoryPublicShare] = true
		on[CategoryRateLimit] = true
	case LevelAggressive:
		for _, c := range allCategories {
			on[c] = true
		}
	}

	out := make(map[Category]bool, len(allCategories))
	for _, c := range allCategories {
		out[c] = on[c]
	}
	return out
}

// DefaultConfig returns the level 2 policy with every category's default TTL.
func DefaultConfig() Config {
	ttl := make(map[Category]time.Duration, len(defaultTTLs))
	for c, d := range defaultTTLs {
		ttl[c] = d
	}

	return Config{
		Enabled:    true,
		Level:      LevelDefault,
		Strategies: StrategiesForLevel(LevelDefault),
		TTL:        ttl,
		Memory: MemoryConfig{
			Enabled:       true,
			DefaultMaxAge: DefaultMemoryMaxAge,
		},
		Remote: RemoteConfig{
			Timeout:             DefaultRemoteTimeout,
			ScanCount:           DefaultScanCount,
			KeyPrefix:           DefaultKeyPrefix,
			InvalidationChannel: DefaultInvalidationChannel,
		},
		ErrorThreshold: DefaultErrorThreshold,
	}
}

// Normalize returns a copy of c with defaults filled in so that every category
// in Strategies has a non-negative TTL and every numeric knob is usable.
func (c Config) Normalize() Config {
	out := c
	out.Level = c.Level.Clamp()
	out.Strategies = lo.Assign(map[Category]bool{}, c.Strategies)
	out.TTL = lo.Assign(map[Category]time.Duration{}, c.TTL)

	for cat := range out.Strategies {
		if d, ok := out.TTL[cat]; !ok || d < 0 {
			out.TTL[cat] = cat.DefaultTTL()
		}
	}

	if out.Memory.DefaultMaxAge <= 0 {
		out.Memory.DefaultMaxAge = DefaultMemoryMaxAge
	}
	if out.Remote.Timeout <= 0 {
		out.Remote.Timeout = DefaultRemoteTimeout
	}
	if out.Remote.ScanCount <= 0 {
		out.Remote.ScanCount = DefaultScanCount
	}
	if out.Remote.InvalidationChannel == "" {
		out.Remote.InvalidationChannel = DefaultInvalidationChannel
	}
	if out.ErrorThreshold <= 0 {
		out.ErrorThreshold = DefaultErrorThreshold
	}

	return out
}

// StrategyEnabled reports whether the declared policy enables a category.
func (c Config) StrategyEnabled(cat Category) bool {
	return c.Strategies[cat]
}

// TTLFor returns the configured TTL for a category.
func (c Config) TTLFor(cat Category) time.Duration {
	if d, ok := c.TTL[cat]; ok {
		return d
	}
	return cat.DefaultTTL()
}
