package config

import (
	"strconv"
	"strings"
	"time"

	"bookmark-manager/internal/cache"
)

// categoryEnvNames maps each category to the upper snake form used in
// CACHE_TTL_<NAME> and CACHE_STRATEGY_<NAME>.
var categoryEnvNames = map[cache.Category]string{
	cache.CategoryDefaultList: "DEFAULT_LIST",
	cache.CategoryTagFilter:   "TAG_FILTER",
	cache.CategorySearch:      "SEARCH",
	cache.CategoryPublicShare: "PUBLIC_SHARE",
	cache.CategoryRateLimit:   "RATE_LIMIT",
}

// LoadCache resolves the cache policy from environment-style lookups.
//
// It never fails: malformed or non-positive numbers fall back to defaults,
// unparsable booleans are ignored and an unrecognised CACHE_LEVEL yields the
// default level. Level 0 disables the cache whatever CACHE_ENABLED says.
// Per-category CACHE_STRATEGY_* overrides are applied after level gating.
//
// Example:
//
//	cfg := config.LoadCache(os.Getenv)
//	svc := cache.NewService(cfg, store)
func LoadCache(getenv func(string) string) cache.Config {
	cfg := cache.DefaultConfig()

	cfg.Level = parseLevel(getenv("CACHE_LEVEL"))
	cfg.Enabled = lookupBool(getenv, "CACHE_ENABLED", true) && cfg.Level != cache.LevelNone
	cfg.Strategies = cache.StrategiesForLevel(cfg.Level)

	for _, c := range cache.Categories() {
		name := categoryEnvNames[c]
		cfg.Strategies[c] = lookupBool(getenv, "CACHE_STRATEGY_"+name, cfg.Strategies[c])
		if secs, ok := lookupPositiveInt(getenv, "CACHE_TTL_"+name); ok {
			cfg.TTL[c] = time.Duration(secs) * time.Second
		}
	}

	cfg.Memory.Enabled = lookupBool(getenv, "CACHE_MEMORY_ENABLED", true)
	if secs, ok := lookupPositiveInt(getenv, "CACHE_MEMORY_MAX_AGE"); ok {
		cfg.Memory.DefaultMaxAge = time.Duration(secs) * time.Second
	}

	if ms, ok := lookupPositiveInt(getenv, "CACHE_REMOTE_TIMEOUT_MS"); ok {
		cfg.Remote.Timeout = time.Duration(ms) * time.Millisecond
	}
	if n, ok := lookupPositiveInt(getenv, "CACHE_SCAN_COUNT"); ok {
		cfg.Remote.ScanCount = int64(n)
	}
	if n, ok := lookupPositiveInt(getenv, "CACHE_ERROR_THRESHOLD"); ok {
		cfg.ErrorThreshold = n
	}
	if v := getenv("CACHE_KEY_PREFIX"); v != "" {
		cfg.Remote.KeyPrefix = v
	}
	if v := getenv("CACHE_INVALIDATION_CHANNEL"); v != "" {
		cfg.Remote.InvalidationChannel = v
	}

	return cfg.Normalize()
}

// parseLevel accepts 0-3 or a level name. Integers outside the range are
// clamped; anything else is the default level.
func parseLevel(raw string) cache.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cache.LevelDefault
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return cache.Level(n).Clamp()
	}

	switch strings.ToLower(raw) {
	case "none", "off":
		return cache.LevelNone
	case "minimal":
		return cache.LevelMinimal
	case "default":
		return cache.LevelDefault
	case "aggressive":
		return cache.LevelAggressive
	}
	return cache.LevelDefault
}

func lookupBool(getenv func(string) string, key string, fallback bool) bool {
	if value := strings.TrimSpace(getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func lookupPositiveInt(getenv func(string) string, key string) (int, bool) {
	value := strings.TrimSpace(getenv(key))
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
