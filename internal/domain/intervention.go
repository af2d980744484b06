package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sentiment classifies the user's reaction to an intervention message.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func ValidSentiment(s string) bool {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Intervention is a motivational message sent to a user for a goal.
// Immutable once created; scored by at most one Outcome.
type Intervention struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	GoalID   uuid.UUID `json:"goal_id"`
	Strategy Strategy  `json:"strategy"`
	Message  string    `json:"message"`
	// FallbackGenerated marks interventions whose message came from the
	// canned fallback because the generation service failed.
	FallbackGenerated bool      `json:"fallback_generated"`
	SentAt            time.Time `json:"sent_at"`
}

// Outcome records the user's check-in response to a single intervention.
// Created exactly once per intervention; immutable thereafter.
type Outcome struct {
	ID                  uuid.UUID `json:"id"`
	InterventionID      uuid.UUID `json:"intervention_id"`
	UserID              uuid.UUID `json:"user_id"`
	GoalID              uuid.UUID `json:"goal_id"`
	Completed           bool      `json:"completed"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
	Feedback            string    `json:"feedback,omitempty"`
	Sentiment           Sentiment `json:"sentiment"`
	Reward              float64   `json:"reward"`
	RecordedAt          time.Time `json:"recorded_at"`
}
