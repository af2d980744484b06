package domain

import (
	"context"

	"github.com/google/uuid"
)

type GoalStore interface {
	Create(ctx context.Context, g *Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status *GoalStatus, limit, offset int) ([]Goal, error)
	Update(ctx context.Context, g *Goal) error
	// RecordCheckIn bumps the goal's check-in counters atomically: increments
	// total check-ins, increments completions and the streak on success,
	// resets the streak on a miss.
	RecordCheckIn(ctx context.Context, id uuid.UUID, completed bool) error
}

type InterventionStore interface {
	Create(ctx context.Context, iv *Intervention) error
	GetByID(ctx context.Context, id uuid.UUID) (*Intervention, error)
	ListByUser(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, limit, offset int) ([]Intervention, error)
}

type OutcomeStore interface {
	// Create persists an outcome. Returns store.ErrConflict if the
	// intervention has already been scored (at-most-once per intervention).
	Create(ctx context.Context, o *Outcome) error
	GetByInterventionID(ctx context.Context, interventionID uuid.UUID) (*Outcome, error)
}

// StrategyStatStore owns the per-(user, strategy) aggregates. It is the only
// component allowed to mutate them; everything else reads snapshots.
type StrategyStatStore interface {
	Get(ctx context.Context, userID uuid.UUID, strategy Strategy) (*StrategyStat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]StrategyStat, error)
	// Insert creates the first row for a (user, strategy) pair. Returns
	// store.ErrConflict if a concurrent writer created it first.
	Insert(ctx context.Context, st *StrategyStat) error
	// CompareAndUpdate writes st only if the stored row still has
	// expectedPulls pulls, returning store.ErrConflict otherwise. This is the
	// optimistic-concurrency primitive behind lost-update-free aggregation.
	CompareAndUpdate(ctx context.Context, st *StrategyStat, expectedPulls int) error
}

// Transactor runs fn with outcome and stat stores bound to a single
// transaction: everything fn writes commits together or not at all. This is
// what keeps outcome recording all-or-nothing, so a stat conflict rolls the
// outcome row back and the check-in stays retryable.
type Transactor interface {
	InTx(ctx context.Context, fn func(outcomes OutcomeStore, stats StrategyStatStore) error) error
}

// TraceStore is a fire-and-forget sink for loop stage events. Failures here
// must never affect selection, scoring or persistence.
type TraceStore interface {
	Create(ctx context.Context, ev *TraceEvent) error
}

// GenerateRequest carries the context the message generator needs.
type GenerateRequest struct {
	Strategy        Strategy
	GoalTitle       string
	GoalDescription string
	CurrentStreak   int
}

// SentimentJudgment is the judge's assessment of a user's free-text feedback.
type SentimentJudgment struct {
	Sentiment   Sentiment `json:"sentiment"`
	Helpfulness float64   `json:"helpfulness"`
	Reasoning   string    `json:"reasoning,omitempty"`
}

// CoachLLM is the narrow capability interface over the external language
// model: message generation for Act and sentiment judging for Evaluate.
// Both calls may fail; the coach always has a non-LLM fallback path.
type CoachLLM interface {
	GenerateMessage(ctx context.Context, req GenerateRequest) (string, error)
	JudgeSentiment(ctx context.Context, interventionMessage, feedback string) (SentimentJudgment, error)
}
