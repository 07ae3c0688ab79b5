package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/audit"
	"github.com/MishalHQ/aevon-console/internal/auth"
	"github.com/MishalHQ/aevon-console/internal/respond"
)

// Source is the store slice the handlers consume; tests use fakes.
type Source interface {
	List(ctx context.Context) ([]Project, error)
	ListDemos(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, p *Project) (*Project, error)
	Update(ctx context.Context, id int64, p UpdateParams) (*Project, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	Store  Source
	Audit  auth.AuditRecorder
	Logger *slog.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List serves GET /api/projects.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.List(r.Context())
	if err != nil {
		h.Logger.Error("list projects", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch projects")
		return
	}
	respond.JSON(w, http.StatusOK, projects)
}

// ListDemos serves GET /api/projects/demos. Public, no auth.
func (h *Handler) ListDemos(w http.ResponseWriter, r *http.Request) {
	demos, err := h.Store.ListDemos(r.Context())
	if err != nil {
		h.Logger.Error("list demo projects", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch demo projects")
		return
	}
	respond.JSON(w, http.StatusOK, demos)
}

// Get serves GET /api/projects/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	project, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		h.Logger.Error("get project", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch project")
		return
	}
	respond.JSON(w, http.StatusOK, project)
}

type createRequest struct {
	Name        string  `json:"name"`
	Type        Type    `json:"type"`
	Status      Status  `json:"status"`
	Description string  `json:"description"`
	TechStack   string  `json:"tech_stack"`
	Budget      float64 `json:"budget"`
	ClientID    *int64  `json:"client_id"`
	IsDemo      bool    `json:"is_demo"`
}

// Create serves POST /api/projects.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.Type == "" || req.Status == "" {
		respond.Error(w, http.StatusBadRequest, "Name, type, and status are required")
		return
	}
	if !req.Type.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid project type")
		return
	}
	if !req.Status.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid project status")
		return
	}

	project, err := h.Store.Create(r.Context(), &Project{
		Name:        req.Name,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		TechStack:   req.TechStack,
		Budget:      req.Budget,
		ClientID:    req.ClientID,
		IsDemo:      req.IsDemo,
	})
	if err != nil {
		h.Logger.Error("create project", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create project")
		return
	}

	h.recordMutation(r, audit.ActionProjectCreated, req)
	respond.JSON(w, http.StatusCreated, project)
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Type        *Type    `json:"type"`
	Status      *Status  `json:"status"`
	Description *string  `json:"description"`
	TechStack   *string  `json:"tech_stack"`
	Budget      *float64 `json:"budget"`
	ClientID    *int64   `json:"client_id"`
	IsDemo      *bool    `json:"is_demo"`
}

// Update serves PUT /api/projects/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type != nil && !req.Type.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid project type")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid project status")
		return
	}

	project, err := h.Store.Update(r.Context(), id, UpdateParams{
		Name:        req.Name,
		Type:        req.Type,
		Status:      req.Status,
		Description: req.Description,
		TechStack:   req.TechStack,
		Budget:      req.Budget,
		ClientID:    req.ClientID,
		IsDemo:      req.IsDemo,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		h.Logger.Error("update project", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update project")
		return
	}

	h.recordMutation(r, audit.ActionProjectUpdated, req)
	respond.JSON(w, http.StatusOK, project)
}

// Delete serves DELETE /api/projects/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid project id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Project not found")
			return
		}
		h.Logger.Error("delete project", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete project")
		return
	}

	h.recordMutation(r, audit.ActionProjectDeleted, map[string]int64{"id": id})
	respond.Message(w, "Project deleted successfully")
}

func (h *Handler) recordMutation(r *http.Request, action audit.Action, payload interface{}) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok {
		return
	}
	detail, _ := json.Marshal(payload)
	h.Audit.Record(r.Context(), audit.Entry{
		Action:    action,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		Detail:    string(detail),
		IPAddress: audit.ClientIP(r),
	})
}
