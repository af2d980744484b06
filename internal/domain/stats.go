package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExperimentPhase distinguishes "still gathering baseline data" from
// "primarily exploiting the best-known strategy" for a user.
type ExperimentPhase string

const (
	PhaseExploring  ExperimentPhase = "exploring"
	PhaseOptimizing ExperimentPhase = "optimizing"
)

// StrategyStat is the running aggregate for one (user, strategy) pair.
// Absence of a row means the strategy was never tried; readers treat that as
// a zero-value stat, not an error.
type StrategyStat struct {
	UserID   uuid.UUID `json:"user_id"`
	Strategy Strategy  `json:"strategy"`

	Pulls     int `json:"pulls"`
	Successes int `json:"successes"`

	// Running arithmetic means over all outcomes observed so far.
	MeanResponseTimeSeconds float64 `json:"mean_response_time_seconds"`
	EffectivenessScore      float64 `json:"effectiveness_score"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (s *StrategyStat) CompletionRate() float64 {
	if s.Pulls == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Pulls)
}
