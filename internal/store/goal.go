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

type GoalStore struct {
	db *pgxpool.Pool
}

func NewGoalStore(db *pgxpool.Pool) *GoalStore {
	return &GoalStore{db: db}
}

func (s *GoalStore) Create(ctx context.Context, g *domain.Goal) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO goals (user_id, title, description, frequency, target_count, start_date, end_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		g.UserID, g.Title, g.Description, g.Frequency, g.TargetCount, g.StartDate, g.EndDate, g.Status,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

func (s *GoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	g := &domain.Goal{}
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, title, description, frequency, target_count, start_date, end_date, status, current_streak, total_completions, total_check_ins, created_at, updated_at
		 FROM goals WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Frequency, &g.TargetCount, &g.StartDate, &g.EndDate, &g.Status, &g.CurrentStreak, &g.TotalCompletions, &g.TotalCheckIns, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *GoalStore) ListByUser(ctx context.Context, userID uuid.UUID, status *domain.GoalStatus, limit, offset int) ([]domain.Goal, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT id, user_id, title, description, frequency, target_count, start_date, end_date, status, current_streak, total_completions, total_check_ins, created_at, updated_at
		 FROM goals WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Frequency, &g.TargetCount, &g.StartDate, &g.EndDate, &g.Status, &g.CurrentStreak, &g.TotalCompletions, &g.TotalCheckIns, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *GoalStore) Update(ctx context.Context, g *domain.Goal) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE goals SET title = $2, description = $3, status = $4, end_date = $5, updated_at = NOW()
		 WHERE id = $1`,
		g.ID, g.Title, g.Description, g.Status, g.EndDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GoalStore) RecordCheckIn(ctx context.Context, id uuid.UUID, completed bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE goals SET
		    total_check_ins = total_check_ins + 1,
		    total_completions = total_completions + CASE WHEN $2 THEN 1 ELSE 0 END,
		    current_streak = CASE WHEN $2 THEN current_streak + 1 ELSE 0 END,
		    updated_at = NOW()
		 WHERE id = $1`,
		id, completed,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ domain.GoalStore = (*GoalStore)(nil)
