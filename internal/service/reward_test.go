package service

import (
	"math"
	"testing"

	"github.com/resolutionlab/coach/internal/domain"
)

func TestComputeReward_CompletedFastPositive(t *testing.T) {
	// 30 min response: speed component = 1 - 1800/3600 = 0.5
	reward, err := ComputeReward(true, 1800, domain.SentimentPositive)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := 0.6 + 0.2*0.5 + 0.2*1.0
	if math.Abs(reward-want) > 1e-9 {
		t.Fatalf("expected reward %v, got %v", want, reward)
	}
}

func TestComputeReward_MissedSlowNegative(t *testing.T) {
	reward, err := ComputeReward(false, 7200, domain.SentimentNegative)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reward != 0 {
		t.Fatalf("expected reward 0, got %v", reward)
	}
}

func TestComputeReward_SpeedClampedBeyondOneHour(t *testing.T) {
	atLimit, _ := ComputeReward(false, 3600, domain.SentimentNeutral)
	beyond, _ := ComputeReward(false, 50000, domain.SentimentNeutral)
	if atLimit != beyond {
		t.Fatalf("expected identical rewards past the decay limit, got %v and %v", atLimit, beyond)
	}
	if atLimit != 0.1 {
		t.Fatalf("expected 0.1 (neutral sentiment only), got %v", atLimit)
	}
}

func TestComputeReward_MissingSentimentDefaultsNeutral(t *testing.T) {
	got, err := ComputeReward(true, 0, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want, _ := ComputeReward(true, 0, domain.SentimentNeutral)
	if got != want {
		t.Fatalf("expected missing sentiment to score as neutral (%v), got %v", want, got)
	}
}

func TestComputeReward_NegativeResponseTime(t *testing.T) {
	_, err := ComputeReward(true, -1, domain.SentimentPositive)
	if err != ErrNegativeResponseTime {
		t.Fatalf("expected ErrNegativeResponseTime, got %v", err)
	}
}

func TestComputeReward_AlwaysInUnitInterval(t *testing.T) {
	completions := []bool{true, false}
	times := []float64{0, 1, 600, 1800, 3599, 3600, 3601, 100000}
	sentiments := []domain.Sentiment{domain.SentimentPositive, domain.SentimentNeutral, domain.SentimentNegative, ""}

	for _, c := range completions {
		for _, rt := range times {
			for _, s := range sentiments {
				reward, err := ComputeReward(c, rt, s)
				if err != nil {
					t.Fatalf("unexpected error for (%v, %v, %q): %v", c, rt, s, err)
				}
				if reward < 0 || reward > 1 {
					t.Fatalf("reward %v out of [0,1] for (%v, %v, %q)", reward, c, rt, s)
				}
			}
		}
	}
}

func TestComputeReward_BestAndWorstCases(t *testing.T) {
	best, _ := ComputeReward(true, 0, domain.SentimentPositive)
	if best != 1.0 {
		t.Fatalf("expected max reward 1.0, got %v", best)
	}
	worst, _ := ComputeReward(false, 3600, domain.SentimentNegative)
	if worst != 0.0 {
		t.Fatalf("expected min reward 0.0, got %v", worst)
	}
}
