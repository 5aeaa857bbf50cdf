package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"bookmark-manager/internal/common/logging"
)

// GetCacheStats returns live cache statistics
// @Summary Get cache statistics
// @Description Returns hit/miss counters, hit rate, memory entry count and the enabled strategies
// @Tags cache
// @Produce json
// @Success 200 {object} cache.Stats "Cache statistics"
// @Router /api/cache/stats [get]
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cache.Stats())
}

// InvalidateCache drops every cached key under a prefix
// @Summary Invalidate a key prefix
// @Description Removes matching keys from the memory and Redis tiers and notifies peer instances
// @Tags cache
// @Produce json
// @Param prefix query string true "Key prefix, e.g. user:42:"
// @Success 200 {object} cache.InvalidationResult "Keys removed per tier"
// @Failure 400 {string} string "prefix is required"
// @Router /api/cache/invalidate [post]
func (h *Handlers) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if strings.TrimSpace(prefix) == "" {
		http.Error(w, "prefix is required", http.StatusBadRequest)
		return
	}

	result := h.cache.Invalidate(r.Context(), prefix)
	h.logger.Info("Cache prefix invalidated by operator",
		logging.String("prefix", prefix),
		logging.Int("memory_keys", result.Memory),
		logging.Int("remote_keys", result.Remote),
	)

	writeJSON(w, http.StatusOK, result)
}

// DeleteCacheKey removes a single key
// @Summary Delete a cache key
// @Tags cache
// @Param key path string true "Cache key"
// @Success 204 "Deleted"
// @Router /api/cache/keys/{key} [delete]
func (h *Handlers) DeleteCacheKey(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	h.cache.Delete(r.Context(), key)
	w.WriteHeader(http.StatusNoContent)
}
