package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/resolutionlab/coach/internal/domain"
	"go.uber.org/zap"
)

func setupGoalTest() (*GoalService, *mockGoalStore, uuid.UUID) {
	goalStore := newMockGoalStore()
	svc := NewGoalService(goalStore, zap.NewNop())
	return svc, goalStore, uuid.New()
}

func TestGoalService_CreateAppliesDefaults(t *testing.T) {
	svc, goalStore, userID := setupGoalTest()

	goal := &domain.Goal{UserID: userID, Title: "Read every evening"}
	if err := svc.Create(context.Background(), goal); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if goal.ID == uuid.Nil {
		t.Fatal("expected goal ID to be set")
	}
	if goal.Frequency != domain.FrequencyDaily {
		t.Fatalf("expected default frequency daily, got %q", goal.Frequency)
	}
	if goal.TargetCount != 1 {
		t.Fatalf("expected default target count 1, got %d", goal.TargetCount)
	}
	if goal.Status != domain.GoalStatusActive {
		t.Fatalf("expected active status, got %q", goal.Status)
	}
	if goal.StartDate.IsZero() {
		t.Fatal("expected start date to be defaulted")
	}
	if len(goalStore.goals) != 1 {
		t.Fatalf("expected 1 goal in store, got %d", len(goalStore.goals))
	}
}

func TestGoalService_CreateValidation(t *testing.T) {
	svc, _, userID := setupGoalTest()
	ctx := context.Background()

	tests := []struct {
		name string
		goal *domain.Goal
		want error
	}{
		{"empty title", &domain.Goal{UserID: userID}, ErrGoalTitleRequired},
		{"title too long", &domain.Goal{UserID: userID, Title: strings.Repeat("x", 201)}, ErrGoalTitleTooLong},
		{"target count too high", &domain.Goal{UserID: userID, Title: "ok", TargetCount: 101}, ErrGoalTargetCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Create(ctx, tt.goal); err != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGoalService_GetForUserOwnership(t *testing.T) {
	svc, _, userID := setupGoalTest()
	ctx := context.Background()

	goal := &domain.Goal{UserID: userID, Title: "Meditate"}
	if err := svc.Create(ctx, goal); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := svc.GetForUser(ctx, goal.ID, userID); err != nil {
		t.Fatalf("expected owner access, got %v", err)
	}
	if _, err := svc.GetForUser(ctx, goal.ID, uuid.New()); err != ErrGoalNotOwned {
		t.Fatalf("expected ErrGoalNotOwned for stranger, got %v", err)
	}
	if _, err := svc.GetForUser(ctx, uuid.New(), userID); err != ErrGoalNotFound {
		t.Fatalf("expected ErrGoalNotFound, got %v", err)
	}
}

func TestGoalService_ListEmptyIsNotNil(t *testing.T) {
	svc, _, userID := setupGoalTest()

	goals, err := svc.List(context.Background(), userID, nil, 50, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if goals == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(goals) != 0 {
		t.Fatalf("expected no goals, got %d", len(goals))
	}
}

func TestGoalService_UpdateStatusAndTitle(t *testing.T) {
	svc, _, userID := setupGoalTest()
	ctx := context.Background()

	goal := &domain.Goal{UserID: userID, Title: "Run"}
	if err := svc.Create(ctx, goal); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	title := "Run 5k"
	status := string(domain.GoalStatusPaused)
	updated, err := svc.Update(ctx, goal.ID, userID, GoalUpdate{Title: &title, Status: &status})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Title != "Run 5k" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
	if updated.Status != domain.GoalStatusPaused {
		t.Fatalf("expected paused status, got %q", updated.Status)
	}

	bad := "hibernating"
	if _, err := svc.Update(ctx, goal.ID, userID, GoalUpdate{Status: &bad}); err != ErrGoalInvalidStatus {
		t.Fatalf("expected ErrGoalInvalidStatus, got %v", err)
	}
}
