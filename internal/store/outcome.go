package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/domain"
)

type OutcomeStore struct {
	db DB
}

func NewOutcomeStore(db *pgxpool.Pool) *OutcomeStore {
	return &OutcomeStore{db: db}
}

// Create inserts the outcome. The unique index on intervention_id enforces
// at-most-once scoring; a second insert for the same intervention returns
// ErrConflict.
func (s *OutcomeStore) Create(ctx context.Context, o *domain.Outcome) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO outcomes (intervention_id, user_id, goal_id, completed, response_time_seconds, user_feedback, sentiment, reward)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, recorded_at`,
		o.InterventionID, o.UserID, o.GoalID, o.Completed, o.ResponseTimeSeconds, o.Feedback, o.Sentiment, o.Reward,
	).Scan(&o.ID, &o.RecordedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *OutcomeStore) GetByInterventionID(ctx context.Context, interventionID uuid.UUID) (*domain.Outcome, error) {
	o := &domain.Outcome{}
	err := s.db.QueryRow(ctx,
		`SELECT id, intervention_id, user_id, goal_id, completed, response_time_seconds, user_feedback, sentiment, reward, recorded_at
		 FROM outcomes WHERE intervention_id = $1`,
		interventionID,
	).Scan(&o.ID, &o.InterventionID, &o.UserID, &o.GoalID, &o.Completed, &o.ResponseTimeSeconds, &o.Feedback, &o.Sentiment, &o.Reward, &o.RecordedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

var _ domain.OutcomeStore = (*OutcomeStore)(nil)
