// Package metrics exports cache instrumentation to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bookmark-manager/internal/cache"
)

// Default histogram buckets for remote call latency (in seconds). The remote
// timeout defaults to 100ms so most of the resolution sits below it.
var remoteBuckets = []float64{
	.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5,
}

// CacheMetrics implements cache.Metrics using Prometheus.
type CacheMetrics struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	remoteErrors  *prometheus.CounterVec
	remoteLatency *prometheus.HistogramVec
	disabled      prometheus.Gauge
}

// NewCacheMetrics registers the cache collectors with reg.
func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmarks_cache_hits_total",
			Help: "Total number of cache hits by category and serving tier",
		}, []string{"category", "tier"}),

		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmarks_cache_misses_total",
			Help: "Total number of cache misses by category",
		}, []string{"category"}),

		remoteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookmarks_cache_remote_errors_total",
			Help: "Total number of failed remote tier operations",
		}, []string{"op"}),

		remoteLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookmarks_cache_remote_duration_seconds",
			Help:    "Remote tier operation latency in seconds",
			Buckets: remoteBuckets,
		}, []string{"op"}),

		disabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bookmarks_cache_disabled",
			Help: "1 once the cache has turned itself off after repeated remote failures",
		}),
	}

	reg.MustRegister(
		m.hits,
		m.misses,
		m.remoteErrors,
		m.remoteLatency,
		m.disabled,
	)

	return m
}

func (m *CacheMetrics) Hit(category cache.Category, tier cache.Tier) {
	m.hits.WithLabelValues(string(category), string(tier)).Inc()
}

func (m *CacheMetrics) Miss(category cache.Category) {
	m.misses.WithLabelValues(string(category)).Inc()
}

func (m *CacheMetrics) RemoteError(op string) {
	m.remoteErrors.WithLabelValues(op).Inc()
}

func (m *CacheMetrics) Tripped() {
	m.disabled.Set(1)
}

func (m *CacheMetrics) ObserveRemote(op string, d time.Duration) {
	m.remoteLatency.WithLabelValues(op).Observe(d.Seconds())
}

var _ cache.Metrics = (*CacheMetrics)(nil)
