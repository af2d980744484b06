package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/domain"
)

type TraceStore struct {
	db *pgxpool.Pool
}

func NewTraceStore(db *pgxpool.Pool) *TraceStore {
	return &TraceStore{db: db}
}

func (s *TraceStore) Create(ctx context.Context, ev *domain.TraceEvent) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO trace_events (user_id, goal_id, intervention_id, stage, detail)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		ev.UserID, ev.GoalID, ev.InterventionID, ev.Stage, ev.Detail,
	).Scan(&ev.ID, &ev.CreatedAt)
}

var _ domain.TraceStore = (*TraceStore)(nil)
