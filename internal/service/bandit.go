package service

import (
	"math/rand"

	"github.com/resolutionlab/coach/internal/domain"
)

const (
	// MinExplorePulls is how many times each strategy must be tried before
	// exploitation begins.
	MinExplorePulls = 3

	// DefaultEpsilon is the exploration probability once optimizing.
	DefaultEpsilon = 0.2
)

// Selection reasons, attached to plan traces.
const (
	ReasonExplorationPhase = "exploration_phase"
	ReasonEpsilonExplore   = "epsilon_explore"
	ReasonExploitBest      = "exploit_best"
)

// BanditPolicy selects the next strategy with an epsilon-greedy multi-armed
// bandit over the fixed catalog. The random source is always injected so
// selection sequences are reproducible given a seed.
type BanditPolicy struct {
	epsilon float64
}

func NewBanditPolicy(epsilon float64) *BanditPolicy {
	if epsilon <= 0 || epsilon >= 1 {
		epsilon = DefaultEpsilon
	}
	return &BanditPolicy{epsilon: epsilon}
}

// Selection is the policy's decision plus the branch that produced it.
type Selection struct {
	Strategy domain.Strategy `json:"strategy"`
	Reason   string          `json:"reason"`
}

// Select picks the next strategy given the user's stats snapshot and phase.
// Strategies absent from stats are treated as never tried (zero pulls).
//
// While exploring, it picks uniformly among strategies below MinExplorePulls.
// If none remain the phase is stale and selection degrades to the optimizing
// branch. While optimizing it explores uniformly over the whole catalog with
// probability epsilon, otherwise exploits the highest effectiveness score,
// breaking ties by fewest pulls and then by catalog order.
func (p *BanditPolicy) Select(stats map[domain.Strategy]domain.StrategyStat, phase domain.ExperimentPhase, rng *rand.Rand) Selection {
	if phase == domain.PhaseExploring {
		var undertried []domain.Strategy
		for _, s := range domain.Strategies() {
			if stats[s].Pulls < MinExplorePulls {
				undertried = append(undertried, s)
			}
		}
		if len(undertried) > 0 {
			return Selection{
				Strategy: undertried[rng.Intn(len(undertried))],
				Reason:   ReasonExplorationPhase,
			}
		}
		// All strategies met the minimum: the caller's phase is stale.
	}

	all := domain.Strategies()
	if rng.Float64() < p.epsilon {
		return Selection{
			Strategy: all[rng.Intn(len(all))],
			Reason:   ReasonEpsilonExplore,
		}
	}

	best := all[0]
	bestStat := stats[best]
	for _, s := range all[1:] {
		st := stats[s]
		if st.EffectivenessScore > bestStat.EffectivenessScore ||
			(st.EffectivenessScore == bestStat.EffectivenessScore && st.Pulls < bestStat.Pulls) {
			best = s
			bestStat = st
		}
	}
	return Selection{Strategy: best, Reason: ReasonExploitBest}
}
