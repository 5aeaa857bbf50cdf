package cache

import (
	"sync/atomic"

	apperrors "bookmark-manager/internal/common/errors"
	"bookmark-manager/internal/common/logging"
)

// errorTracker counts consecutive remote failures and switches the owning
// service off once the threshold is reached. There is no way back to enabled
// short of a restart.
type errorTracker struct {
	threshold int64
	enabled   *atomic.Bool

	consecutive atomic.Int64
	total       atomic.Int64

	logger  logging.Logger
	metrics Metrics
}

func newErrorTracker(threshold int, enabled *atomic.Bool, logger logging.Logger, metrics Metrics) *errorTracker {
	if threshold <= 0 {
		threshold = DefaultErrorThreshold
	}
	return &errorTracker{
		threshold: int64(threshold),
		enabled:   enabled,
		logger:    logger,
		metrics:   metrics,
	}
}

func (t *errorTracker) record(op string, err error) {
	t.total.Add(1)
	t.metrics.RemoteError(op)
	n := t.consecutive.Add(1)

	t.logger.Debug("Cache remote operation failed",
		logging.String("op", op),
		logging.String("error_type", string(apperrors.GetType(err))),
		logging.Int64("consecutive_failures", n),
		logging.Err(err),
	)

	if n >= t.threshold && t.enabled.CompareAndSwap(true, false) {
		t.metrics.Tripped()
		t.logger.Warn("Cache disabled after repeated remote failures; restart to re-enable",
			logging.Int64("threshold", t.threshold),
			logging.String("last_op", op),
			logging.Err(err),
		)
	}
}

// reset clears the consecutive counter after a successful remote call.
func (t *errorTracker) reset() {
	if t.consecutive.Load() != 0 {
		t.consecutive.Store(0)
	}
}

func (t *errorTracker) errors() int64 {
	return t.total.Load()
}
