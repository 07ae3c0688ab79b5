package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/respond"
)

type Handler struct {
	Store  *Store
	Logger *slog.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List serves GET /api/services (active services only).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.Store.ListActive(r.Context())
	if err != nil {
		h.Logger.Error("list services", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch services")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// Get serves GET /api/services/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid service id")
		return
	}
	svc, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Service not found")
			return
		}
		h.Logger.Error("get service", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch service")
		return
	}
	respond.JSON(w, http.StatusOK, svc)
}

type createRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Duration    string   `json:"duration"`
	Features    []string `json:"features"`
}

// Create serves POST /api/services.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Features == nil {
		req.Features = []string{}
	}

	svc, err := h.Store.Create(r.Context(), &Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Duration:    req.Duration,
		Features:    req.Features,
	})
	if err != nil {
		h.Logger.Error("create service", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create service")
		return
	}
	respond.JSON(w, http.StatusCreated, svc)
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Duration    *string  `json:"duration"`
	Features    []string `json:"features"`
	IsActive    *bool    `json:"is_active"`
}

// Update serves PUT /api/services/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid service id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svc, err := h.Store.Update(r.Context(), id, UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Duration:    req.Duration,
		Features:    req.Features,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Service not found")
			return
		}
		h.Logger.Error("update service", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update service")
		return
	}
	respond.JSON(w, http.StatusOK, svc)
}

// Delete serves DELETE /api/services/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid service id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Service not found")
			return
		}
		h.Logger.Error("delete service", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	respond.Message(w, "Service deleted successfully")
}
