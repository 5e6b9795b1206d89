package handler

import (
	"net/http"
	"strconv"

	"outlethub-api/internal/service"
	"outlethub-api/pkg/apierror"
	"outlethub-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// StatsHandler handles statistics recomputation HTTP requests.
type StatsHandler struct {
	statsSvc *service.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(statsSvc *service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// UpdateStats handles POST /outlets/{id}/update-stats
func (h *StatsHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apierror.BadRequest("invalid outlet id"))
		return
	}

	stats, err := h.statsSvc.Recompute(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "Outlet statistics updated successfully",
		"data":    stats,
	})
}

// RecalculateAllStats handles POST /outlets/recalculate-all-stats
func (h *StatsHandler) RecalculateAllStats(w http.ResponseWriter, r *http.Request) {
	results, err := h.statsSvc.RecomputeAll(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"message": "All outlet statistics recalculated",
		"results": results,
	})
}
