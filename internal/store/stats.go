package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/resolutionlab/coach/internal/domain"
)

type StrategyStatStore struct {
	db DB
}

func NewStrategyStatStore(db *pgxpool.Pool) *StrategyStatStore {
	return &StrategyStatStore{db: db}
}

func (s *StrategyStatStore) Get(ctx context.Context, userID uuid.UUID, strategy domain.Strategy) (*domain.StrategyStat, error) {
	st := &domain.StrategyStat{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, strategy, pulls, successes, mean_response_time_seconds, effectiveness_score, last_updated
		 FROM user_strategy_stats WHERE user_id = $1 AND strategy = $2`,
		userID, strategy,
	).Scan(&st.UserID, &st.Strategy, &st.Pulls, &st.Successes, &st.MeanResponseTimeSeconds, &st.EffectivenessScore, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return st, nil
}

func (s *StrategyStatStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StrategyStat, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, strategy, pulls, successes, mean_response_time_seconds, effectiveness_score, last_updated
		 FROM user_strategy_stats WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.StrategyStat
	for rows.Next() {
		var st domain.StrategyStat
		if err := rows.Scan(&st.UserID, &st.Strategy, &st.Pulls, &st.Successes, &st.MeanResponseTimeSeconds, &st.EffectivenessScore, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func (s *StrategyStatStore) Insert(ctx context.Context, st *domain.StrategyStat) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO user_strategy_stats (user_id, strategy, pulls, successes, mean_response_time_seconds, effectiveness_score)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING last_updated`,
		st.UserID, st.Strategy, st.Pulls, st.Successes, st.MeanResponseTimeSeconds, st.EffectivenessScore,
	).Scan(&st.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// CompareAndUpdate applies st only if the stored pulls count still matches
// expectedPulls. Two concurrent updates can both read the same row; the pulls
// guard makes the second one fail with ErrConflict instead of silently
// clobbering the first.
func (s *StrategyStatStore) CompareAndUpdate(ctx context.Context, st *domain.StrategyStat, expectedPulls int) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE user_strategy_stats SET
		    pulls = $3,
		    successes = $4,
		    mean_response_time_seconds = $5,
		    effectiveness_score = $6,
		    last_updated = NOW()
		 WHERE user_id = $1 AND strategy = $2 AND pulls = $7`,
		st.UserID, st.Strategy, st.Pulls, st.Successes, st.MeanResponseTimeSeconds, st.EffectivenessScore, expectedPulls,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

var _ domain.StrategyStatStore = (*StrategyStatStore)(nil)
