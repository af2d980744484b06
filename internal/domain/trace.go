package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoopStage names one stage of the coach's cognitive loop.
type LoopStage string

const (
	StageObserve  LoopStage = "observe"
	StageThink    LoopStage = "think"
	StagePlan     LoopStage = "plan"
	StageAct      LoopStage = "act"
	StageEvaluate LoopStage = "evaluate"
	StageLearn    LoopStage = "learn"
)

// TraceEvent is a structured record of one loop stage, emitted for
// observability only. Nothing in the selection or scoring path reads it back.
type TraceEvent struct {
	ID             uuid.UUID      `json:"id"`
	UserID         uuid.UUID      `json:"user_id"`
	GoalID         uuid.UUID      `json:"goal_id"`
	InterventionID *uuid.UUID     `json:"intervention_id,omitempty"`
	Stage          LoopStage      `json:"stage"`
	Detail         map[string]any `json:"detail,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
