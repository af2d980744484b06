package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"github.com/resolutionlab/coach/internal/store"
)

// mockGoalStore implements domain.GoalStore for testing.
type mockGoalStore struct {
	goals map[uuid.UUID]*domain.Goal
}

func newMockGoalStore() *mockGoalStore {
	return &mockGoalStore{goals: make(map[uuid.UUID]*domain.Goal)}
}

func (m *mockGoalStore) Create(ctx context.Context, g *domain.Goal) error {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	m.goals[g.ID] = g
	return nil
}

func (m *mockGoalStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Goal, error) {
	g, ok := m.goals[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (m *mockGoalStore) ListByUser(ctx context.Context, userID uuid.UUID, status *domain.GoalStatus, limit, offset int) ([]domain.Goal, error) {
	var results []domain.Goal
	for _, g := range m.goals {
		if g.UserID != userID {
			continue
		}
		if status != nil && g.Status != *status {
			continue
		}
		results = append(results, *g)
	}
	return results, nil
}

func (m *mockGoalStore) Update(ctx context.Context, g *domain.Goal) error {
	if _, ok := m.goals[g.ID]; !ok {
		return store.ErrNotFound
	}
	g.UpdatedAt = time.Now()
	copied := *g
	m.goals[g.ID] = &copied
	return nil
}

func (m *mockGoalStore) RecordCheckIn(ctx context.Context, id uuid.UUID, completed bool) error {
	g, ok := m.goals[id]
	if !ok {
		return store.ErrNotFound
	}
	g.TotalCheckIns++
	if completed {
		g.TotalCompletions++
		g.CurrentStreak++
	} else {
		g.CurrentStreak = 0
	}
	return nil
}

// mockInterventionStore implements domain.InterventionStore for testing.
type mockInterventionStore struct {
	interventions map[uuid.UUID]*domain.Intervention
}

func newMockInterventionStore() *mockInterventionStore {
	return &mockInterventionStore{interventions: make(map[uuid.UUID]*domain.Intervention)}
}

func (m *mockInterventionStore) Create(ctx context.Context, iv *domain.Intervention) error {
	iv.ID = uuid.New()
	if iv.SentAt.IsZero() {
		iv.SentAt = time.Now()
	}
	copied := *iv
	m.interventions[iv.ID] = &copied
	return nil
}

func (m *mockInterventionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Intervention, error) {
	iv, ok := m.interventions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *iv
	return &copied, nil
}

func (m *mockInterventionStore) ListByUser(ctx context.Context, userID uuid.UUID, goalID *uuid.UUID, limit, offset int) ([]domain.Intervention, error) {
	var results []domain.Intervention
	for _, iv := range m.interventions {
		if iv.UserID != userID {
			continue
		}
		if goalID != nil && iv.GoalID != *goalID {
			continue
		}
		results = append(results, *iv)
	}
	return results, nil
}

// mockOutcomeStore implements domain.OutcomeStore with the at-most-once
// constraint the real table enforces.
type mockOutcomeStore struct {
	outcomes map[uuid.UUID]*domain.Outcome // keyed by intervention ID
}

func newMockOutcomeStore() *mockOutcomeStore {
	return &mockOutcomeStore{outcomes: make(map[uuid.UUID]*domain.Outcome)}
}

func (m *mockOutcomeStore) Create(ctx context.Context, o *domain.Outcome) error {
	if _, exists := m.outcomes[o.InterventionID]; exists {
		return store.ErrConflict
	}
	o.ID = uuid.New()
	o.RecordedAt = time.Now()
	copied := *o
	m.outcomes[o.InterventionID] = &copied
	return nil
}

func (m *mockOutcomeStore) GetByInterventionID(ctx context.Context, interventionID uuid.UUID) (*domain.Outcome, error) {
	o, ok := m.outcomes[interventionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

type statKey struct {
	userID   uuid.UUID
	strategy domain.Strategy
}

// mockStatStore implements domain.StrategyStatStore with the same
// compare-and-update semantics as the real table. Set conflictsRemaining to
// make the next writes fail with store.ErrConflict.
type mockStatStore struct {
	stats              map[statKey]*domain.StrategyStat
	conflictsRemaining int
}

func newMockStatStore() *mockStatStore {
	return &mockStatStore{stats: make(map[statKey]*domain.StrategyStat)}
}

func (m *mockStatStore) Get(ctx context.Context, userID uuid.UUID, strategy domain.Strategy) (*domain.StrategyStat, error) {
	st, ok := m.stats[statKey{userID, strategy}]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *st
	return &copied, nil
}

func (m *mockStatStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.StrategyStat, error) {
	var results []domain.StrategyStat
	for key, st := range m.stats {
		if key.userID == userID {
			results = append(results, *st)
		}
	}
	return results, nil
}

func (m *mockStatStore) Insert(ctx context.Context, st *domain.StrategyStat) error {
	if m.conflictsRemaining > 0 {
		m.conflictsRemaining--
		return store.ErrConflict
	}
	key := statKey{st.UserID, st.Strategy}
	if _, exists := m.stats[key]; exists {
		return store.ErrConflict
	}
	st.UpdatedAt = time.Now()
	copied := *st
	m.stats[key] = &copied
	return nil
}

func (m *mockStatStore) CompareAndUpdate(ctx context.Context, st *domain.StrategyStat, expectedPulls int) error {
	if m.conflictsRemaining > 0 {
		m.conflictsRemaining--
		return store.ErrConflict
	}
	key := statKey{st.UserID, st.Strategy}
	current, exists := m.stats[key]
	if !exists || current.Pulls != expectedPulls {
		return store.ErrConflict
	}
	st.UpdatedAt = time.Now()
	copied := *st
	m.stats[key] = &copied
	return nil
}

// mockTx implements domain.Transactor over the in-memory stores, restoring
// their previous contents when the callback fails so rolled-back writes
// really disappear.
type mockTx struct {
	outcomes *mockOutcomeStore
	stats    *mockStatStore
}

func (m *mockTx) InTx(ctx context.Context, fn func(domain.OutcomeStore, domain.StrategyStatStore) error) error {
	savedOutcomes := make(map[uuid.UUID]*domain.Outcome, len(m.outcomes.outcomes))
	for k, v := range m.outcomes.outcomes {
		savedOutcomes[k] = v
	}
	savedStats := make(map[statKey]*domain.StrategyStat, len(m.stats.stats))
	for k, v := range m.stats.stats {
		savedStats[k] = v
	}

	if err := fn(m.outcomes, m.stats); err != nil {
		m.outcomes.outcomes = savedOutcomes
		m.stats.stats = savedStats
		return err
	}
	return nil
}

// mockTraceStore implements domain.TraceStore and records every event.
type mockTraceStore struct {
	events []domain.TraceEvent
	err    error
}

func newMockTraceStore() *mockTraceStore {
	return &mockTraceStore{}
}

func (m *mockTraceStore) Create(ctx context.Context, ev *domain.TraceEvent) error {
	if m.err != nil {
		return m.err
	}
	ev.ID = uuid.New()
	ev.CreatedAt = time.Now()
	m.events = append(m.events, *ev)
	return nil
}

func (m *mockTraceStore) stages() []domain.LoopStage {
	var stages []domain.LoopStage
	for _, ev := range m.events {
		stages = append(stages, ev.Stage)
	}
	return stages
}
