package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/domain"
)

type InterventionStore struct {
	db *pgxpool.Pool
}

func NewInterventionStore(db *pgxpool.Pool) *InterventionStore {
	return &InterventionStore{db: db}
}

func (s *InterventionStore) Create(ctx context.Context, iv *domain.Intervention) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO interventions (user_id, goal_id, strategy, message, fallback_generated)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, sent_at`,
		iv.UserID, iv.GoalID, iv.Strategy, iv.Message, iv.FallbackGenerated,
	).Scan(&iv.ID, &iv.SentAt)
}

func (s *InterventionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Intervention, error) {
	iv := &domain.Intervention{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, goal_id, strategy, message, fallback_generated, sent_at
		 FROM interventions WHERE id = $1`,
		id,
	).Scan(&iv.ID, &iv.UserID, &iv.GoalID, &iv.Strategy, &iv.Message, &iv.FallbackGenerated, &iv.SentAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return iv, nil
}

func (s *InterventionStore) ListByUser(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, limit, offset int) ([]domain.Intervention, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, user_id, goal_id, strategy, message, fallback_generated, sent_at
		 FROM interventions WHERE user_id = $1`
	args := []any{userID}
	if goalID != nil {
		query += ` AND goal_id = $2`
		args = append(args, *goalID)
	}
	query += fmt.Sprintf(` ORDER BY sent_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interventions []domain.Intervention
	for rows.Next() {
		var iv domain.Intervention
		if err := rows.Scan(&iv.ID, &iv.UserID, &iv.GoalID, &iv.Strategy, &iv.Message, &iv.FallbackGenerated, &iv.SentAt); err != nil {
			return nil, err
		}
		interventions = append(interventions, iv)
	}
	return interventions, rows.Err()
}

var _ domain.InterventionStore = (*InterventionStore)(nil)
