package dashboard

import (
	"net/http"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/respond"
)

type Handler struct {
	Store  *Store
	Logger *slog.Logger
}

// GetStats serves GET /api/dashboard/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.Stats(r.Context())
	if err != nil {
		h.Logger.Error("dashboard stats", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch dashboard statistics")
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

// GetCharts serves GET /api/dashboard/charts.
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.Store.Charts(r.Context())
	if err != nil {
		h.Logger.Error("dashboard charts", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch chart data")
		return
	}
	respond.JSON(w, http.StatusOK, charts)
}
