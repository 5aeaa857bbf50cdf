package cache

import "time"

// Tier names the level that served a hit.
type Tier string

const (
	TierMemory Tier = "memory"
	TierRemote Tier = "remote"
)

// Metrics receives cache instrumentation events. Implementations must be safe
// for concurrent use.
type Metrics interface {
	Hit(category Category, tier Tier)
	Miss(category Category)
	RemoteError(op string)
	Tripped()
	ObserveRemote(op string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) Hit(Category, Tier)                  {}
func (nopMetrics) Miss(Category)                       {}
func (nopMetrics) RemoteError(string)                  {}
func (nopMetrics) Tripped()                            {}
func (nopMetrics) ObserveRemote(string, time.Duration) {}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
