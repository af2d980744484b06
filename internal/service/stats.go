package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/store"
	"go.uber.org/zap"
)

const (
	statsUpdateAttempts = 3
	statsRetryBackoff   = 25 * time.Millisecond
)

var ErrStatsConflict = errors.New("strategy stats update conflicted, try again")

// StatsService owns the per-(user, strategy) aggregates: it is the single
// writer and serves consistent snapshots to everything else.
type StatsService struct {
	tx            domain.Transactor
	stats         domain.StrategyStatStore
	minDataPoints int
	logger        *zap.Logger
}

func NewStatsService(tx domain.Transactor, stats domain.StrategyStatStore, minDataPoints int, logger *zap.Logger) *StatsService {
	if minDataPoints <= 0 {
		minDataPoints = DefaultMinDataPoints
	}
	return &StatsService{
		tx:            tx,
		stats:         stats,
		minDataPoints: minDataPoints,
		logger:        logger,
	}
}

// Snapshot returns the user's stats keyed by strategy, with zero-value
// entries for catalog strategies that have never been tried. Missing rows are
// not an error and are never stored eagerly.
func (s *StatsService) Snapshot(ctx context.Context, userID uuid.UUID) (map[domain.Strategy]domain.StrategyStat, error) {
	rows, err := s.stats.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[domain.Strategy]domain.StrategyStat, len(domain.Strategies()))
	for _, strategy := range domain.Strategies() {
		snapshot[strategy] = domain.StrategyStat{UserID: userID, Strategy: strategy}
	}
	for _, row := range rows {
		snapshot[row.Strategy] = row
	}
	return snapshot, nil
}

// Phase recomputes the experiment phase from a snapshot.
func (s *StatsService) Phase(stats map[domain.Strategy]domain.StrategyStat) domain.ExperimentPhase {
	return ComputePhase(stats, s.minDataPoints)
}

// RecordOutcome persists the outcome and folds it into the (user, strategy)
// aggregate inside one transaction. Means are updated as cumulative means, so
// the stored effectiveness score is the arithmetic mean of all rewards seen
// so far and is order-independent for a given multiset of observations.
//
// The outcome's unique intervention_id is the at-most-once gate: a second
// insert surfaces ErrInterventionAlreadyScored. The aggregate update is
// optimistic, with the pulls count doubling as a version; a concurrent writer
// rolls the whole attempt back, outcome row included, and triggers a re-read
// and retry. After statsUpdateAttempts failed attempts the caller gets
// ErrStatsConflict with nothing persisted, so the same check-in can be
// resubmitted.
func (s *StatsService) RecordOutcome(ctx context.Context, o *domain.Outcome, strategy domain.Strategy) (*domain.StrategyStat, error) {
	for attempt := 0; attempt < statsUpdateAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * statsRetryBackoff):
			}
		}

		var updated domain.StrategyStat
		err := s.tx.InTx(ctx, func(outcomes domain.OutcomeStore, stats domain.StrategyStatStore) error {
			if err := outcomes.Create(ctx, o); err != nil {
				if errors.Is(err, store.ErrConflict) {
					return ErrInterventionAlreadyScored
				}
				return err
			}

			current, err := stats.Get(ctx, o.UserID, strategy)
			if err != nil {
				if !errors.Is(err, store.ErrNotFound) {
					return err
				}
				current = &domain.StrategyStat{UserID: o.UserID, Strategy: strategy}
			}

			updated = applyCumulative(*current, o.Completed, o.ResponseTimeSeconds, o.Reward)

			if current.Pulls == 0 {
				return stats.Insert(ctx, &updated)
			}
			return stats.CompareAndUpdate(ctx, &updated, current.Pulls)
		})
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return nil, err
		}

		s.logger.Debug("strategy stats update conflicted, retrying",
			zap.String("user_id", o.UserID.String()),
			zap.String("strategy", string(strategy)),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, ErrStatsConflict
}

func applyCumulative(st domain.StrategyStat, completed bool, responseTimeSeconds, reward float64) domain.StrategyStat {
	st.Pulls++
	if completed {
		st.Successes++
	}
	n := float64(st.Pulls)
	st.MeanResponseTimeSeconds += (responseTimeSeconds - st.MeanResponseTimeSeconds) / n
	st.EffectivenessScore += (reward - st.EffectivenessScore) / n
	return st
}
