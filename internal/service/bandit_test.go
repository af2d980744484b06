package service

import (
	"math/rand"
	"testing"

	"github.com/resolutionlab/coach/internal/domain"
)

func TestBanditPolicy_ExploringPicksOnlyUndersampled(t *testing.T) {
	policy := NewBanditPolicy(DefaultEpsilon)
	rng := rand.New(rand.NewSource(1))

	stats := make(map[domain.Strategy]domain.StrategyStat)
	undertried := map[domain.Strategy]bool{}
	for i, s := range domain.Strategies() {
		pulls := MinExplorePulls
		if i%2 == 0 {
			pulls = 1
			undertried[s] = true
		}
		stats[s] = domain.StrategyStat{Strategy: s, Pulls: pulls}
	}

	for i := 0; i < 500; i++ {
		sel := policy.Select(stats, domain.PhaseExploring, rng)
		if sel.Reason != ReasonExplorationPhase {
			t.Fatalf("expected exploration_phase reason, got %q", sel.Reason)
		}
		if !undertried[sel.Strategy] {
			t.Fatalf("selected fully-sampled strategy %q while exploring", sel.Strategy)
		}
	}
}

func TestBanditPolicy_ExploringCoversAllOnEmptyStats(t *testing.T) {
	policy := NewBanditPolicy(DefaultEpsilon)
	rng := rand.New(rand.NewSource(2))
	stats := map[domain.Strategy]domain.StrategyStat{}

	counts := make(map[domain.Strategy]int)
	for i := 0; i < 1000; i++ {
		sel := policy.Select(stats, domain.PhaseExploring, rng)
		counts[sel.Strategy]++
	}

	// Uniform over 8 arms: every arm must show up in 1000 draws.
	for _, s := range domain.Strategies() {
		if counts[s] == 0 {
			t.Fatalf("strategy %q never selected in 1000 exploration draws", s)
		}
	}
}

func TestBanditPolicy_StalePhaseDegradesToOptimizing(t *testing.T) {
	// Zero epsilon makes the optimizing branch fully deterministic.
	policy := &BanditPolicy{epsilon: 0}
	rng := rand.New(rand.NewSource(3))

	leader := domain.Strategies()[2]
	stats := make(map[domain.Strategy]domain.StrategyStat)
	for _, s := range domain.Strategies() {
		score := 0.3
		if s == leader {
			score = 0.9
		}
		stats[s] = domain.StrategyStat{Strategy: s, Pulls: MinExplorePulls, EffectivenessScore: score}
	}

	// Caller passes a stale exploring phase even though every strategy met
	// the minimum; selection must fall through to exploitation.
	sel := policy.Select(stats, domain.PhaseExploring, rng)
	if sel.Reason != ReasonExploitBest {
		t.Fatalf("expected exploit_best on stale phase, got %q", sel.Reason)
	}
	if sel.Strategy != leader {
		t.Fatalf("expected leader %q, got %q", leader, sel.Strategy)
	}
}

func TestBanditPolicy_ExploitBreaksTiesByFewestPullsThenCatalogOrder(t *testing.T) {
	policy := &BanditPolicy{epsilon: 0}
	rng := rand.New(rand.NewSource(4))

	stats := make(map[domain.Strategy]domain.StrategyStat)
	for _, s := range domain.Strategies() {
		stats[s] = domain.StrategyStat{Strategy: s, Pulls: 10, EffectivenessScore: 0.5}
	}

	// Two strategies tie on score; the one with fewer pulls wins.
	fewer := domain.Strategies()[5]
	st := stats[fewer]
	st.Pulls = 4
	stats[fewer] = st

	sel := policy.Select(stats, domain.PhaseOptimizing, rng)
	if sel.Strategy != fewer {
		t.Fatalf("expected tie broken by fewest pulls (%q), got %q", fewer, sel.Strategy)
	}

	// Full tie on score and pulls: catalog order wins.
	st = stats[fewer]
	st.Pulls = 10
	stats[fewer] = st

	sel = policy.Select(stats, domain.PhaseOptimizing, rng)
	if sel.Strategy != domain.Strategies()[0] {
		t.Fatalf("expected catalog-order tie-break (%q), got %q", domain.Strategies()[0], sel.Strategy)
	}
}

func TestBanditPolicy_EpsilonGreedyDistribution(t *testing.T) {
	policy := NewBanditPolicy(0.1)
	rng := rand.New(rand.NewSource(42))

	leader := domain.Strategies()[0]
	stats := make(map[domain.Strategy]domain.StrategyStat)
	for _, s := range domain.Strategies() {
		score := 0.2
		if s == leader {
			score = 0.8
		}
		stats[s] = domain.StrategyStat{Strategy: s, Pulls: 5, EffectivenessScore: score}
	}

	leaderCount, exploreCount := 0, 0
	for i := 0; i < 1000; i++ {
		sel := policy.Select(stats, domain.PhaseOptimizing, rng)
		if sel.Strategy == leader {
			leaderCount++
		}
		if sel.Reason == ReasonEpsilonExplore {
			exploreCount++
		}
	}

	// Expected leader share: 0.9 + 0.1/8 = 0.9125. Wide bounds keep the test
	// stable across seeds.
	if leaderCount < 860 || leaderCount > 960 {
		t.Fatalf("expected roughly 900/1000 leader selections, got %d", leaderCount)
	}
	// Expected exploration share: 0.1.
	if exploreCount < 55 || exploreCount > 150 {
		t.Fatalf("expected roughly 100/1000 exploration draws, got %d", exploreCount)
	}
}

func TestBanditPolicy_ForcedEpsilonExploresUniformly(t *testing.T) {
	policy := &BanditPolicy{epsilon: 1}
	rng := rand.New(rand.NewSource(7))

	stats := snapshotWithUniformPulls(5)
	counts := make(map[domain.Strategy]int)
	for i := 0; i < 1000; i++ {
		sel := policy.Select(stats, domain.PhaseOptimizing, rng)
		if sel.Reason != ReasonEpsilonExplore {
			t.Fatalf("expected epsilon_explore with epsilon=1, got %q", sel.Reason)
		}
		counts[sel.Strategy]++
	}
	for _, s := range domain.Strategies() {
		if counts[s] == 0 {
			t.Fatalf("strategy %q never selected under forced exploration", s)
		}
	}
}

func TestNewBanditPolicy_ClampsInvalidEpsilon(t *testing.T) {
	for _, eps := range []float64{-0.5, 0, 1, 1.5} {
		p := NewBanditPolicy(eps)
		if p.epsilon != DefaultEpsilon {
			t.Fatalf("expected epsilon %v clamped to default, got %v", eps, p.epsilon)
		}
	}
}
