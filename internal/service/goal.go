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

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalTitleRequired = errors.New("title is required")
	ErrGoalTitleTooLong  = errors.New("title must be at most 200 characters")
	ErrGoalTargetCount   = errors.New("target_count must be between 1 and 100")
	ErrGoalInvalidStatus = errors.New("invalid goal status")
	ErrGoalNotOwned      = errors.New("goal does not belong to user")
)

type GoalService struct {
	goals  domain.GoalStore
	logger *zap.Logger
}

func NewGoalService(goals domain.GoalStore, logger *zap.Logger) *GoalService {
	return &GoalService{goals: goals, logger: logger}
}

func (s *GoalService) Create(ctx context.Context, g *domain.Goal) error {
	if g.Title == "" {
		return ErrGoalTitleRequired
	}
	if len(g.Title) > 200 {
		return ErrGoalTitleTooLong
	}
	if g.TargetCount == 0 {
		g.TargetCount = 1
	}
	if g.TargetCount < 1 || g.TargetCount > 100 {
		return ErrGoalTargetCount
	}
	if g.Frequency == "" {
		g.Frequency = domain.FrequencyDaily
	}
	if g.StartDate.IsZero() {
		g.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	g.Status = domain.GoalStatusActive

	return s.goals.Create(ctx, g)
}

// GetForUser fetches a goal and verifies ownership.
func (s *GoalService) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Goal, error) {
	g, err := s.goals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrGoalNotOwned
	}
	return g, nil
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID, status *domain.GoalStatus, limit, offset int) ([]domain.Goal, error) {
	goals, err := s.goals.ListByUser(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	return goals, nil
}

// GoalUpdate carries the mutable fields of a goal; nil means "leave as is".
type GoalUpdate struct {
	Title       *string
	Description *string
	Status      *string
	EndDate     *time.Time
}

func (s *GoalService) Update(ctx context.Context, id, userID uuid.UUID, upd GoalUpdate) (*domain.Goal, error) {
	g, err := s.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, ErrGoalTitleRequired
		}
		if len(*upd.Title) > 200 {
			return nil, ErrGoalTitleTooLong
		}
		g.Title = *upd.Title
	}
	if upd.Description != nil {
		g.Description = *upd.Description
	}
	if upd.Status != nil {
		if !domain.ValidGoalStatus(*upd.Status) {
			return nil, ErrGoalInvalidStatus
		}
		g.Status = domain.GoalStatus(*upd.Status)
	}
	if upd.EndDate != nil {
		g.EndDate = upd.EndDate
	}

	if err := s.goals.Update(ctx, g); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, err
	}
	return g, nil
}
