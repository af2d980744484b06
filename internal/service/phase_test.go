package service

import (
	"testing"

	"github.com/resolutionlab/coach/internal/domain"
)

func snapshotWithUniformPulls(pulls int) map[domain.Strategy]domain.StrategyStat {
	stats := make(map[domain.Strategy]domain.StrategyStat)
	for _, s := range domain.Strategies() {
		stats[s] = domain.StrategyStat{Strategy: s, Pulls: pulls}
	}
	return stats
}

func TestComputePhase_EmptyIsExploring(t *testing.T) {
	if got := ComputePhase(map[domain.Strategy]domain.StrategyStat{}, 20); got != domain.PhaseExploring {
		t.Fatalf("expected exploring for empty stats, got %v", got)
	}
}

func TestComputePhase_AllAtMinimumMeetsThreshold(t *testing.T) {
	// 8 strategies at exactly 3 pulls = 24 total, above the default 20.
	stats := snapshotWithUniformPulls(MinExplorePulls)
	if got := ComputePhase(stats, DefaultMinDataPoints); got != domain.PhaseOptimizing {
		t.Fatalf("expected optimizing at 8x3 pulls with threshold 20, got %v", got)
	}
}

func TestComputePhase_OneStrategyBelowMinimum(t *testing.T) {
	stats := snapshotWithUniformPulls(10)
	s := domain.Strategies()[4]
	st := stats[s]
	st.Pulls = MinExplorePulls - 1
	stats[s] = st

	if got := ComputePhase(stats, DefaultMinDataPoints); got != domain.PhaseExploring {
		t.Fatalf("expected exploring while any strategy is under-sampled, got %v", got)
	}
}

func TestComputePhase_TotalBelowThreshold(t *testing.T) {
	// Per-strategy minimum met, but 8x3=24 < threshold of 30.
	stats := snapshotWithUniformPulls(MinExplorePulls)
	if got := ComputePhase(stats, 30); got != domain.PhaseExploring {
		t.Fatalf("expected exploring below total threshold, got %v", got)
	}
}

func TestComputePhase_ZeroThresholdUsesDefault(t *testing.T) {
	stats := snapshotWithUniformPulls(MinExplorePulls)
	if got := ComputePhase(stats, 0); got != domain.PhaseOptimizing {
		t.Fatalf("expected default threshold to apply, got %v", got)
	}
}

func TestComputePhase_MonotonicUnderAddedPulls(t *testing.T) {
	stats := snapshotWithUniformPulls(MinExplorePulls)
	if ComputePhase(stats, DefaultMinDataPoints) != domain.PhaseOptimizing {
		t.Fatal("precondition: expected optimizing")
	}

	// Pulls only ever increase; phase must never flip back.
	for i, s := range domain.Strategies() {
		st := stats[s]
		st.Pulls += i * 7
		stats[s] = st
		if got := ComputePhase(stats, DefaultMinDataPoints); got != domain.PhaseOptimizing {
			t.Fatalf("phase regressed to %v after adding pulls", got)
		}
	}
}
