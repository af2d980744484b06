package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/service"
)

type GoalHandler struct {
	svc *service.GoalService
}

func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

type createGoalRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
	TargetCount int    `json:"target_count,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	if req.Frequency != "" && !domain.ValidGoalFrequency(req.Frequency) {
		writeError(w, http.StatusBadRequest, "invalid frequency")
		return
	}

	goal := &domain.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   domain.GoalFrequency(req.Frequency),
		TargetCount: req.TargetCount,
	}

	if req.StartDate != "" {
		t, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
			return
		}
		goal.StartDate = t
	}
	if req.EndDate != "" {
		t, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
			return
		}
		goal.EndDate = &t
	}

	if err := h.svc.Create(r.Context(), goal); err != nil {
		switch {
		case errors.Is(err, service.ErrGoalTitleRequired),
			errors.Is(err, service.ErrGoalTitleTooLong),
			errors.Is(err, service.ErrGoalTargetCount):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create goal")
		}
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	var status *domain.GoalStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if !domain.ValidGoalStatus(raw) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		s := domain.GoalStatus(raw)
		status = &s
	}

	limit, offset := pagination(r)

	goals, err := h.svc.List(r.Context(), userID, status, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goals": goals,
		"count": len(goals),
	})
}

func (h *GoalHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	goal, err := h.svc.GetForUser(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "goal not found")
		case errors.Is(err, service.ErrGoalNotOwned):
			writeError(w, http.StatusForbidden, "goal does not belong to user")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get goal")
		}
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

type updateGoalRequest struct {
	UserID      string     `json:"user_id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal id")
		return
	}

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	goal, err := h.svc.Update(r.Context(), id, userID, service.GoalUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "goal not found")
		case errors.Is(err, service.ErrGoalNotOwned):
			writeError(w, http.StatusForbidden, "goal does not belong to user")
		case errors.Is(err, service.ErrGoalTitleRequired),
			errors.Is(err, service.ErrGoalTitleTooLong),
			errors.Is(err, service.ErrGoalInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to update goal")
		}
		return
	}

	writeJSON(w, http.StatusOK, goal)
}
