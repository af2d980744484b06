package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/service"
)

type InterventionHandler struct {
	svc *service.CoachService
}

func NewInterventionHandler(svc *service.CoachService) *InterventionHandler {
	return &InterventionHandler{svc: svc}
}

type generateRequest struct {
	UserID        string `json:"user_id"`
	GoalID        string `json:"goal_id"`
	ForceStrategy string `json:"force_strategy,omitempty"`
}

// Generate runs the selection loop for a goal and returns the persisted
// intervention together with the stage trail.
func (h *InterventionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid goal_id")
		return
	}

	var force *domain.Strategy
	if req.ForceStrategy != "" {
		if !domain.ValidStrategy(req.ForceStrategy) {
			writeError(w, http.StatusBadRequest, "invalid force_strategy")
			return
		}
		s := domain.Strategy(req.ForceStrategy)
		force = &s
	}

	result, err := h.svc.CheckIn(r.Context(), userID, goalID, force)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGoalNotFound):
			writeError(w, http.StatusNotFound, "goal not found")
		case errors.Is(err, service.ErrGoalNotOwned):
			writeError(w, http.StatusForbidden, "goal does not belong to user")
		case errors.Is(err, service.ErrInvalidStrategy):
			writeError(w, http.StatusBadRequest, "invalid strategy")
		default:
			writeError(w, http.StatusInternalServerError, "failed to generate intervention")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type checkInRequest struct {
	UserID         string `json:"user_id"`
	InterventionID string `json:"intervention_id"`
	Completed      bool   `json:"completed"`
	Feedback       string `json:"feedback,omitempty"`
}

// CheckIn records the outcome of an intervention and updates the user's
// strategy statistics.
func (h *InterventionHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	interventionID, err := uuid.Parse(req.InterventionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid intervention_id")
		return
	}

	result, err := h.svc.RecordOutcome(r.Context(), userID, interventionID, req.Completed, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInterventionNotFound):
			writeError(w, http.StatusNotFound, "intervention not found")
		case errors.Is(err, service.ErrInterventionNotOwned):
			writeError(w, http.StatusForbidden, "intervention does not belong to user")
		case errors.Is(err, service.ErrInterventionAlreadyScored):
			writeError(w, http.StatusConflict, "intervention already has a recorded outcome")
		default:
			writeError(w, http.StatusInternalServerError, "failed to record outcome")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *InterventionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	var goalID *uuid.UUID
	if raw := r.URL.Query().Get("goal_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid goal_id")
			return
		}
		goalID = &id
	}

	limit, offset := pagination(r)

	history, err := h.svc.History(r.Context(), userID, goalID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list interventions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"interventions": history,
		"count":         len(history),
	})
}

func (h *InterventionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid intervention id")
		return
	}
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	detail, err := h.svc.GetIntervention(r.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInterventionNotFound):
			writeError(w, http.StatusNotFound, "intervention not found")
		case errors.Is(err, service.ErrInterventionNotOwned):
			writeError(w, http.StatusForbidden, "intervention does not belong to user")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get intervention")
		}
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Strategies returns the full strategy catalog with display info.
func (h *InterventionHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	type strategyEntry struct {
		Strategy    domain.Strategy `json:"strategy"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Example     string          `json:"example"`
	}

	catalog := domain.Strategies()
	entries := make([]strategyEntry, 0, len(catalog))
	for _, s := range catalog {
		info := s.Info()
		entries = append(entries, strategyEntry{
			Strategy:    s,
			Name:        info.Name,
			Description: info.Description,
			Example:     info.Example,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategies": entries,
		"count":      len(entries),
	})
}
