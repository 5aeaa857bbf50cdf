package cache

// Stats is a point-in-time snapshot of the service's counters.
type Stats struct {
	Enabled          bool              `json:"enabled"`
	Level            Level             `json:"level"`
	LevelName        string            `json:"level_name"`
	Hits             int64             `json:"hits"`
	Misses           int64             `json:"misses"`
	HitRate          float64           `json:"hit_rate"`
	MemoryEntryCount int               `json:"memory_entry_count"`
	Strategies       map[Category]bool `json:"strategies"`
	RemoteErrors     int64             `json:"remote_errors"`
	RemoteConfigured bool              `json:"remote_configured"`
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
