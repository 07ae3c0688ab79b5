package tasks

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

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

// List serves GET /api/tasks with optional project_id and status filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{Status: q.Get("status")}
	if v := q.Get("project_id"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.ProjectID = n
		}
	}

	tasks, err := h.Store.List(r.Context(), f)
	if err != nil {
		h.Logger.Error("list tasks", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}
	respond.JSON(w, http.StatusOK, tasks)
}

// Get serves GET /api/tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	task, err := h.Store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Task not found")
			return
		}
		h.Logger.Error("get task", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to fetch task")
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ProjectID   *int64     `json:"project_id"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      *Status    `json:"status"`
	Priority    *Priority  `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// Create serves POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "Title is required")
		return
	}
	status := StatusTodo
	if req.Status != nil {
		if !req.Status.Valid() {
			respond.Error(w, http.StatusBadRequest, "Invalid task status")
			return
		}
		status = *req.Status
	}
	priority := PriorityMedium
	if req.Priority != nil {
		if !req.Priority.Valid() {
			respond.Error(w, http.StatusBadRequest, "Invalid task priority")
			return
		}
		priority = *req.Priority
	}

	task, err := h.Store.Create(r.Context(), &Task{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.Logger.Error("create task", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to create task")
		return
	}
	respond.JSON(w, http.StatusCreated, task)
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *int64     `json:"assigned_to"`
	Status      *Status    `json:"status"`
	Priority    *Priority  `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// Update serves PUT /api/tasks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid task status")
		return
	}
	if req.Priority != nil && !req.Priority.Valid() {
		respond.Error(w, http.StatusBadRequest, "Invalid task priority")
		return
	}

	task, err := h.Store.Update(r.Context(), id, UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Task not found")
			return
		}
		h.Logger.Error("update task", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to update task")
		return
	}
	respond.JSON(w, http.StatusOK, task)
}

// Delete serves DELETE /api/tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Task not found")
			return
		}
		h.Logger.Error("delete task", "err", err)
		respond.Error(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}
	respond.Message(w, "Task deleted successfully")
}
