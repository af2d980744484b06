package handlers

import (
	"net/http"

	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/service"
)

type InsightHandler struct {
	svc *service.CoachService
}

func NewInsightHandler(svc *service.CoachService) *InsightHandler {
	return &InsightHandler{svc: svc}
}

// Get returns the full insight report: ranking, best/worst, recommendation.
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	insights, err := h.svc.Insights(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build insights")
		return
	}

	writeJSON(w, http.StatusOK, insights)
}

// Comparison returns every strategy's raw aggregate side by side, including
// the untried ones.
func (h *InsightHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	snapshot, phase, err := h.svc.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load strategy stats")
		return
	}

	type comparisonRow struct {
		Strategy                domain.Strategy `json:"strategy"`
		DisplayName             string          `json:"display_name"`
		Pulls                   int             `json:"pulls"`
		Successes               int             `json:"successes"`
		CompletionRate          float64         `json:"completion_rate"`
		MeanResponseTimeSeconds float64         `json:"mean_response_time_seconds"`
		EffectivenessScore      float64         `json:"effectiveness_score"`
	}

	rows := make([]comparisonRow, 0, len(domain.Strategies()))
	for _, s := range domain.Strategies() {
		st := snapshot[s]
		rows = append(rows, comparisonRow{
			Strategy:                s,
			DisplayName:             s.DisplayName(),
			Pulls:                   st.Pulls,
			Successes:               st.Successes,
			CompletionRate:          st.CompletionRate(),
			MeanResponseTimeSeconds: st.MeanResponseTimeSeconds,
			EffectivenessScore:      st.EffectivenessScore,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"strategies":       rows,
		"experiment_phase": phase,
	})
}

// Summary returns the headline numbers for a user's experiment.
func (h *InsightHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromQuery(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}

	snapshot, phase, err := h.svc.Snapshot(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load strategy stats")
		return
	}

	totalPulls, totalSuccesses, tested := 0, 0, 0
	for _, st := range snapshot {
		if st.Pulls == 0 {
			continue
		}
		totalPulls += st.Pulls
		totalSuccesses += st.Successes
		tested++
	}

	overall := 0.0
	if totalPulls > 0 {
		overall = float64(totalSuccesses) / float64(totalPulls)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"experiment_phase":        phase,
		"data_points_collected":   totalPulls,
		"total_completions":       totalSuccesses,
		"overall_completion_rate": overall,
		"strategies_tested":       tested,
		"strategies_total":        len(domain.Strategies()),
	})
}
