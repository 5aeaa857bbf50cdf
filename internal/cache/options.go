package cache

import (
	"time"

	"bookmark-manager/internal/common/logging"
)

// Option configures a Service at construction time.
type Option func(*Service)

// WithLogger sets the logger used for remote failures and breaker events.
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics installs an instrumentation sink.
func WithMetrics(m Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock overrides the clock used for memory-tier expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBroadcaster enables cross-instance fan-out of Delete and Invalidate.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) {
		s.broadcaster = b
	}
}

type setOptions struct {
	ttl    time.Duration
	hasTTL bool
	async  bool
}

// SetOption tunes a single Set call.
type SetOption func(*setOptions)

// WithTTL overrides the category TTL. Zero or negative stores the remote copy
// without expiry; the memory copy still uses the memory tier's max-age.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = ttl
		o.hasTTL = true
	}
}

// Async makes the remote write fire-and-forget.
func Async() SetOption {
	return func(o *setOptions) {
		o.async = true
	}
}
