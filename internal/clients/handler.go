package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/projects"
	"github.com/MishalHQ/aevon-console/internal/respond"
)

type Handler struct {
	Store    *Store
	Projects *projects.Store
	Logger   *slog.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List serves GET /api/clients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.List(r.Context())
	if err != nil {
		h.Logger.Error("list clients", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}
	respond.JSON(w, http.StatusOK, clients)
}

// Get serves GET /api/clients/{id}, embedding the client's projects.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}
	client, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Client not found")
			return
		}
		h.Logger.Error("get client", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	projectList, err := h.Projects.ListByClient(r.Context(), id)
	if err != nil {
		h.Logger.Error("list client projects", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch client")
		return
	}
	respond.JSON(w, http.StatusOK, Detail{Client: *client, Projects: projectList})
}

type payload struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Company  string  `json:"company"`
	Industry string  `json:"industry"`
	Status   *Status `json:"status"`
	Address  string  `json:"address"`
	Notes    string  `json:"notes"`
}

// Create serves POST /api/clients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req payload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	status := StatusActive
	if req.Status != nil {
		if !req.Status.Valid() {
			respond.Error(w, http.StatusBadRequest, "Invalid client status")
			return
		}
		status = *req.Status
	}

	client, err := h.Store.Create(r.Context(), &Client{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Industry: req.Industry,
		Status:   status,
		Address:  req.Address,
		Notes:    req.Notes,
	})
	if err != nil {
		h.Logger.Error("create client", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create client")
		return
	}
	respond.JSON(w, http.StatusCreated, client)
}

type updateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	Industry *string `json:"industry"`
	Status   *Status `json:"status"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

// Update serves PUT /api/clients/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid client status")
		return
	}

	client, err := h.Store.Update(r.Context(), id, UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Industry: req.Industry,
		Status:   req.Status,
		Address:  req.Address,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Client not found")
			return
		}
		h.Logger.Error("update client", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update client")
		return
	}
	respond.JSON(w, http.StatusOK, client)
}

// Delete serves DELETE /api/clients/{id}. Projects keep their rows; the
// schema sets their client link to NULL.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid client id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Client not found")
			return
		}
		h.Logger.Error("delete client", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}
	respond.Message(w, "Client deleted successfully")
}
