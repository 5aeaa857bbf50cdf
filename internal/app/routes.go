package app

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bookmark-manager/internal/handlers"
	"bookmark-manager/internal/middleware"
	"bookmark-manager/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes for the application
func SetupRoutes(router *mux.Router, h *handlers.Handlers, registry *prometheus.Registry, limiter *ratelimit.Limiter) {
	router.Use(middleware.LoggingMiddleware)

	// Health check and metrics scrape
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Cache operations
	api.HandleFunc("/cache/stats", h.GetCacheStats).Methods("GET")

	// Mutating cache operations are rate limited per client IP
	mutating := api.NewRoute().Subrouter()
	if limiter != nil {
		mutating.Use(ratelimit.HTTPMiddleware(limiter, ratelimit.IPKey))
	}
	mutating.HandleFunc("/cache/invalidate", h.InvalidateCache).Methods("POST")
	mutating.HandleFunc("/cache/keys/{key:.+}", h.DeleteCacheKey).Methods("DELETE")
}
