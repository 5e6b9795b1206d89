package handler

import (
	"log"
	"net/http"

	"outlethub-api/internal/cache"
	"outlethub-api/internal/repository"
	"outlethub-api/pkg/response"
)

// AdminHandler exposes store counters and cached stats snapshots.
type AdminHandler struct {
	store      repository.Store
	statsCache *cache.StatsCache // nil when Redis is unavailable
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(store repository.Store, statsCache *cache.StatsCache) *AdminHandler {
	return &AdminHandler{store: store, statsCache: statsCache}
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	stats["snapshot_cache"] = h.statsCache != nil

	if h.statsCache != nil {
		outlets, err := h.store.Outlets().List(r.Context())
		if err == nil {
			snapshots := map[int64]interface{}{}
			for _, outlet := range outlets {
				snap, err := h.statsCache.Get(r.Context(), outlet.ID)
				if err != nil {
					log.Printf("[AdminHandler] Warning: snapshot read failed for outlet %d: %v", outlet.ID, err)
					continue
				}
				if snap != nil {
					snapshots[outlet.ID] = snap
				}
			}
			stats["snapshots"] = snapshots
		}
	}

	response.OK(w, stats)
}
