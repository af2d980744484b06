package service

import "github.com/resolutionlab/coach/internal/domain"

// DefaultMinDataPoints is the default data-sufficiency threshold: total pulls
// across all strategies required before optimizing, independent of the
// per-strategy minimum.
const DefaultMinDataPoints = 20

// ComputePhase derives the experiment phase from a stats snapshot. It is a
// pure function: phase is always recomputable and never stored, so it cannot
// drift from the aggregates. Because pulls never decrease under a fixed
// catalog, the result is monotonic — once optimizing, always optimizing.
func ComputePhase(stats map[domain.Strategy]domain.StrategyStat, minDataPoints int) domain.ExperimentPhase {
	if minDataPoints <= 0 {
		minDataPoints = DefaultMinDataPoints
	}

	total := 0
	for _, s := range domain.Strategies() {
		st := stats[s]
		if st.Pulls < MinExplorePulls {
			return domain.PhaseExploring
		}
		total += st.Pulls
	}
	if total < minDataPoints {
		return domain.PhaseExploring
	}
	return domain.PhaseOptimizing
}
