package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/audit"
	"github.com/MishalHQ/aevon-console/internal/respond"
)

type Handler struct {
	Service *Service
	Store   CredentialSource
	Audit   AuditRecorder
	Logger  *slog.Logger
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Login serves POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.Service.Authenticate(r.Context(), req.Email, req.Password, audit.ClientIP(r))
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case errors.Is(err, ErrAccountDisabled):
		respond.Error(w, http.StatusForbidden, "Account is disabled")
		return
	case err != nil:
		h.Logger.Error("login", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout serves POST /api/auth/logout. Tokens are not revocable server-side:
// the client discards its copy and we keep the audit record.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.Audit.Record(r.Context(), audit.Entry{
		Action:    audit.ActionUserLogout,
		UserID:    user.ID,
		UserEmail: user.Email,
		Detail:    "Logout",
		IPAddress: audit.ClientIP(r),
	})
	respond.Message(w, "Logged out successfully")
}

// Me serves GET /api/auth/me with a fresh read of the caller's record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	user, err := h.Store.GetByID(r.Context(), caller.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Logger.Error("get current user", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, user)
}
