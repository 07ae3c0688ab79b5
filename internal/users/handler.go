// Package users exposes the admin-only user management endpoints. The
// persistence lives in the auth store; this package is the HTTP surface and
// the self-protection rules around it.
package users

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

// Store is the slice of auth.Store these handlers need.
type Store interface {
	List(ctx context.Context) ([]auth.User, error)
	GetByID(ctx context.Context, id int64) (*auth.User, error)
	Create(ctx context.Context, email, password, name string, role auth.Role) (*auth.User, error)
	Update(ctx context.Context, id int64, p auth.UpdateParams) (*auth.User, error)
	Disable(ctx context.Context, id int64) error
}

type Handler struct {
	Store  Store
	Audit  auth.AuditRecorder
	Logger *slog.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List serves GET /api/users.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.List(r.Context())
	if err != nil {
		h.Logger.Error("list users", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

// Get serves GET /api/users/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	user, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("get user", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

type createRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     auth.Role `json:"role"`
}

// Create serves POST /api/users.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		respond.Error(w, http.StatusBadRequest, "Email, password, name, and role are required")
		return
	}
	if !req.Role.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid role. Must be ADMIN or VIEWER")
		return
	}

	user, err := h.Store.Create(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, "Email already exists")
			return
		}
		h.Logger.Error("create user", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	h.recordMutation(r, audit.ActionUserCreated, map[string]interface{}{
		"email": req.Email, "name": req.Name, "role": req.Role,
	})
	respond.JSON(w, http.StatusCreated, user)
}

type updateRequest struct {
	Name     *string    `json:"name"`
	Role     *auth.Role `json:"role"`
	IsActive *bool      `json:"is_active"`
}

// Update serves PUT /api/users/{id}. Partial: absent fields keep their value.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid role. Must be ADMIN or VIEWER")
		return
	}

	actor, _ := auth.UserFromContext(r.Context())
	if actor != nil && actor.ID == id {
		if req.IsActive != nil && !*req.IsActive {
			respond.Error(w, http.StatusBadRequest, "Cannot disable your own account")
			return
		}
		if req.Role != nil && *req.Role != auth.RoleAdmin {
			respond.Error(w, http.StatusBadRequest, "Cannot demote your own account")
			return
		}
	}

	user, err := h.Store.Update(r.Context(), id, auth.UpdateParams{
		Name:     req.Name,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("update user", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	h.recordMutation(r, audit.ActionUserUpdated, req)
	respond.JSON(w, http.StatusOK, user)
}

// Disable serves DELETE /api/users/{id}; deletion is a soft disable.
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	actor, _ := auth.UserFromContext(r.Context())
	if actor != nil && actor.ID == id {
		respond.Error(w, http.StatusBadRequest, "Cannot disable your own account")
		return
	}

	if err := h.Store.Disable(r.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("disable user", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to disable user")
		return
	}

	h.recordMutation(r, audit.ActionUserDisabled, map[string]int64{"id": id})
	respond.Message(w, "User disabled successfully")
}

// recordMutation audits an admin mutation with the request payload as the
// default detail.
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
