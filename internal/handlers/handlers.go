// Package handlers exposes the cache's operational HTTP surface: health,
// live statistics and manual invalidation.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"bookmark-manager/internal/cache"
	"bookmark-manager/internal/common/logging"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handlers struct {
	cache  *cache.Service
	redis  HealthChecker
	logger logging.Logger
}

// New builds the handlers. redis may be nil when the cache runs memory-only.
func New(svc *cache.Service, redis HealthChecker) *Handlers {
	return &Handlers{
		cache:  svc,
		redis:  redis,
		logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "handlers"}),
	}
}

// HealthCheck returns service health
// @Summary Health check
// @Description Reports process health, cache state and Redis reachability. Redis being down degrades the cache, not the service.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Health status"
// @Router /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":        "healthy",
		"timestamp":     time.Now(),
		"version":       "1.0.0",
		"cache_enabled": h.cache.Enabled(),
	}

	if h.redis != nil {
		if err := h.redis.Health(r.Context()); err != nil {
			status["status"] = "degraded"
			status["redis_status"] = "unhealthy"
			status["redis_error"] = err.Error()
		} else {
			status["redis_status"] = "healthy"
		}
	} else {
		status["redis_status"] = "not_configured"
	}

	if !h.cache.Enabled() {
		status["status"] = "degraded"
	}

	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
