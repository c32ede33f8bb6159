package handler

import (
	"net/http"

	"github.com/msomdec/run-tracker/internal/service"
)

// StatsHandler serves aggregate run statistics.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// HandleStats returns the caller's totals.
// GET /stats
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	stats, err := h.stats.Compute(r.Context(), identity.UserID)
	if err != nil {
		writeServiceError(w, err, "compute stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   toStatsDTO(stats),
	})
}
