package audit

import (
	"context"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/respond"
)

// Source is the read side of the store the handlers consume.
type Source interface {
	List(ctx context.Context, f Filter) ([]Event, error)
	Count(ctx context.Context, f Filter) (int, error)
	Actions(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*Stats, error)
}

type Handler struct {
	Source Source
	Logger *slog.Logger
}

type pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type listResponse struct {
	Logs       []Event    `json:"logs"`
	Pagination pagination `json:"pagination"`
}

// List serves GET /api/audit-logs with limit/offset/action/user_id filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := Filter{Limit: 50}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			f.Offset = n
		}
	}
	f.Action = q.Get("action")
	if v := q.Get("user_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UserID = n
		}
	}
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 50
	}

	logs, err := h.Source.List(r.Context(), f)
	if err != nil {
		h.Logger.Error("list audit logs", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}
	total, err := h.Source.Count(r.Context(), f)
	if err != nil {
		h.Logger.Error("count audit logs", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch audit logs")
		return
	}

	respond.JSON(w, http.StatusOK, listResponse{
		Logs: logs,
		Pagination: pagination{
			Total:   total,
			Limit:   f.Limit,
			Offset:  f.Offset,
			HasMore: f.Offset+len(logs) < total,
		},
	})
}

// ListActions serves GET /api/audit-logs/actions.
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := h.Source.Actions(r.Context())
	if err != nil {
		h.Logger.Error("list audit actions", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch actions")
		return
	}
	respond.JSON(w, http.StatusOK, actions)
}

// GetStats serves GET /api/audit-logs/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Source.Stats(r.Context())
	if err != nil {
		h.Logger.Error("audit stats", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch audit statistics")
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}
