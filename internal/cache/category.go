package cache

import "time"

// Category identifies a cache use-case. Every category carries its own enable
// flag and TTL.
type Category string

const (
	// CategoryDefaultList caches a user's paginated bookmark list
	CategoryDefaultList Category = "defaultList"
	// CategoryTagFilter caches bookmark lists filtered by tags
	CategoryTagFilter Category = "tagFilter"
	// CategorySearch caches full-text search results
	CategorySearch Category = "search"
	// CategoryPublicShare caches publicly shared collections and snapshots
	CategoryPublicShare Category = "publicShare"
	// CategoryRateLimit caches rate limiting counters and decisions
	CategoryRateLimit Category = "rateLimit"
)

var allCategories = []Category{
	CategoryDefaultList,
	CategoryTagFilter,
	CategorySearch,
	CategoryPublicShare,
	CategoryRateLimit,
}

var defaultTTLs = map[Category]time.Duration{
	CategoryDefaultList: 300 * time.Second,
	CategoryTagFilter:   300 * time.Second,
	CategorySearch:      120 * time.Second,
	CategoryPublicShare: 600 * time.Second,
	CategoryRateLimit:   60 * time.Second,
}

// Categories returns the closed set of categories in a stable order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := defaultTTLs[c]
	return ok
}

// DefaultTTL returns the built-in TTL for the category, or zero for unknown ones.
func (c Category) DefaultTTL() time.Duration {
	return defaultTTLs[c]
}

func (c Category) String() string {
	return string(c)
}
