package domain

import (
	"time"

	"github.com/google/uuid"
)

type GoalFrequency string

const (
	FrequencyDaily  GoalFrequency = "daily"
	FrequencyWeekly GoalFrequency = "weekly"
	FrequencyCustom GoalFrequency = "custom"
)

func ValidGoalFrequency(f string) bool {
	switch GoalFrequency(f) {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
	GoalStatusPaused    GoalStatus = "paused"
)

func ValidGoalStatus(s string) bool {
	switch GoalStatus(s) {
	case GoalStatusActive, GoalStatusCompleted, GoalStatusAbandoned, GoalStatusPaused:
		return true
	}
	return false
}

type Goal struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Frequency   GoalFrequency `json:"frequency"`
	TargetCount int           `json:"target_count"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      GoalStatus    `json:"status"`

	// Counters maintained on each recorded outcome.
	CurrentStreak    int `json:"current_streak"`
	TotalCompletions int `json:"total_completions"`
	TotalCheckIns    int `json:"total_check_ins"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletionRate returns completions over check-ins, 0 when no check-ins yet.
func (g *Goal) CompletionRate() float64 {
	if g.TotalCheckIns == 0 {
		return 0
	}
	return float64(g.TotalCompletions) / float64(g.TotalCheckIns)
}
