package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/MishalHQ/aevon-console/internal/clients"
	"github.com/MishalHQ/aevon-console/internal/respond"
)

type Handler struct {
	Store   *Store
	Clients *clients.Store
	Logger  *slog.Logger
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// List serves GET /api/leads with an optional stage filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Store.List(r.Context(), r.URL.Query().Get("stage"))
	if err != nil {
		h.Logger.Error("list leads", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	respond.JSON(w, http.StatusOK, leads)
}

// Get serves GET /api/leads/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}
	lead, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Logger.Error("get lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch lead")
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

type createRequest struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Company        string  `json:"company"`
	Source         string  `json:"source"`
	Stage          *Stage  `json:"stage"`
	PotentialValue float64 `json:"potential_value"`
	Notes          string  `json:"notes"`
}

// Create serves POST /api/leads.
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
	stage := StageContacted
	if req.Stage != nil {
		if !req.Stage.Valid() {
			respond.Error(w, http.StatusBadRequest, "Invalid lead stage")
			return
		}
		stage = *req.Stage
	}

	lead, err := h.Store.Create(r.Context(), &Lead{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		Source:         req.Source,
		Stage:          stage,
		PotentialValue: req.PotentialValue,
		Notes:          req.Notes,
	})
	if err != nil {
		h.Logger.Error("create lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}
	respond.JSON(w, http.StatusCreated, lead)
}

type updateRequest struct {
	Name           *string  `json:"name"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Company        *string  `json:"company"`
	Source         *string  `json:"source"`
	Stage          *Stage   `json:"stage"`
	PotentialValue *float64 `json:"potential_value"`
	Notes          *string  `json:"notes"`
}

// Update serves PUT /api/leads/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Stage != nil && !req.Stage.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid lead stage")
		return
	}

	lead, err := h.Store.Update(r.Context(), id, UpdateParams{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Company:        req.Company,
		Source:         req.Source,
		Stage:          req.Stage,
		PotentialValue: req.PotentialValue,
		Notes:          req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Logger.Error("update lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}
	respond.JSON(w, http.StatusOK, lead)
}

// Delete serves DELETE /api/leads/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Logger.Error("delete lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}
	respond.Message(w, "Lead deleted successfully")
}

// Convert serves POST /api/leads/{id}/convert: creates an Active client from
// the lead and moves the lead to Closed Won.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid lead id")
		return
	}
	lead, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Logger.Error("get lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to convert lead")
		return
	}

	notes := "Converted from lead."
	if lead.Notes != "" {
		notes = fmt.Sprintf("Converted from lead. %s", lead.Notes)
	}
	client, err := h.Store.Convert(r.Context(), id, &clients.Client{
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Company: lead.Company,
		Status:  clients.StatusActive,
		Notes:   notes,
	}, h.Clients)
	if err != nil {
		h.Logger.Error("convert lead", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to convert lead")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"client":  client,
		"message": "Lead converted to client successfully",
	})
}
