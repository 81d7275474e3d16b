package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"ecolife-backend/internal/models"
	"ecolife-backend/internal/store"
	"ecolife-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

// ProductivityHandler serves the shared, process-local demo dataset.
type ProductivityHandler struct {
	store *store.Memory
}

func NewProductivityHandler(store *store.Memory) *ProductivityHandler {
	return &ProductivityHandler{store: store}
}

type CreateGoalRequest struct {
	Title      string `json:"title" validate:"notblank"`
	TargetDate string `json:"targetDate"`
	Category   string `json:"category"`
}

type UpdateGoalRequest struct {
	// Raw so that a non-numeric progress can be ignored rather than rejected.
	Progress json.RawMessage `json:"progress"`
}

type CreateTaskRequest struct {
	Title    string `json:"title" validate:"notblank"`
	Priority string `json:"priority" validate:"priority"`
	Category string `json:"category"`
}

// --- GET /api/productivity ---

func (h *ProductivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// --- POST /api/productivity/goals ---

func (h *ProductivityHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := decodeJSON(w, r, &req); err != nil || validation.Validate.Struct(req) != nil {
		writeError(w, http.StatusBadRequest, "Goal title is required.")
		return
	}

	goal := h.store.AddGoal(store.NewGoal{
		Title:      req.Title,
		TargetDate: req.TargetDate,
		Category:   req.Category,
	})
	writeJSON(w, http.StatusCreated, goal)
}

// --- PATCH /api/productivity/goals/{id} ---

func (h *ProductivityHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req UpdateGoalRequest
	// An empty or malformed body just means there is no progress to apply
	_ = decodeJSON(w, r, &req)

	goal, err := h.store.UpdateGoalProgress(chi.URLParam(r, "id"), numericProgress(req.Progress))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Goal not found.")
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// numericProgress returns the rounded progress when raw is a JSON number, nil otherwise.
func numericProgress(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	// Out-of-range numbers come back as ±Inf with ErrRange and clamp like any other
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil
	}
	f = math.Max(0, math.Min(100, f))
	p := int(math.Round(f))
	return &p
}

// --- POST /api/productivity/tasks ---

func (h *ProductivityHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Task title is required.")
		return
	}
	if err := validation.Validate.Struct(req); err != nil {
		if validation.FailedField(err) == "Priority" {
			writeError(w, http.StatusBadRequest, "Task priority must be low, medium, or high.")
			return
		}
		writeError(w, http.StatusBadRequest, "Task title is required.")
		return
	}

	task := h.store.AddTask(store.NewTask{
		Title:    req.Title,
		Priority: models.TaskPriority(req.Priority),
		Category: req.Category,
	})
	writeJSON(w, http.StatusCreated, task)
}

// --- PATCH /api/productivity/tasks/{id}/toggle ---

func (h *ProductivityHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.store.ToggleTask(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found.")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// --- DELETE /api/productivity/tasks/{id} ---

func (h *ProductivityHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTask(chi.URLParam(r, "id")); errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Task not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- POST /api/productivity/habits/{id}/tick ---

func (h *ProductivityHandler) TickHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := h.store.TickHabit(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Habit not found.")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// --- GET /api/stats ---

func (h *ProductivityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Stats())
}
