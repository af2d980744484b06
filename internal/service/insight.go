package service

import (
	"fmt"
	"sort"

	"github.com/resolutionlab/coach/internal/domain"
)

// MinSampleForRanking is the minimum pulls a strategy needs before it can be
// named best or worst.
const MinSampleForRanking = 3

// RankedStrategy is one row of the effectiveness ranking.
type RankedStrategy struct {
	Strategy           domain.Strategy `json:"strategy"`
	DisplayName        string          `json:"display_name"`
	EffectivenessScore float64         `json:"effectiveness_score"`
	Pulls              int             `json:"pulls"`
	Successes          int             `json:"successes"`
	CompletionRate     float64         `json:"completion_rate"`
}

// Insights summarizes what has been learned about a user's motivation
// patterns. Derived data only: nothing here feeds back into selection.
type Insights struct {
	Ranking               []RankedStrategy       `json:"strategy_ranking"`
	Best                  *RankedStrategy        `json:"best_strategy,omitempty"`
	Worst                 *RankedStrategy        `json:"worst_strategy,omitempty"`
	ImprovementVsWorst    *float64               `json:"improvement_vs_worst_pct,omitempty"`
	Recommendation        string                 `json:"recommendation"`
	Phase                 domain.ExperimentPhase `json:"experiment_phase"`
	TotalPulls            int                    `json:"data_points_collected"`
	StrategiesTested      int                    `json:"strategies_tested"`
	OverallCompletionRate float64                `json:"overall_completion_rate"`
}

type InsightEngine struct {
	minSample int
}

func NewInsightEngine() *InsightEngine {
	return &InsightEngine{minSample: MinSampleForRanking}
}

// Rank orders tried strategies by effectiveness score descending, ties broken
// by catalog order. Strategies with zero pulls are omitted.
func (e *InsightEngine) Rank(stats map[domain.Strategy]domain.StrategyStat) []RankedStrategy {
	var ranking []RankedStrategy
	for _, s := range domain.Strategies() {
		st := stats[s]
		if st.Pulls == 0 {
			continue
		}
		ranking = append(ranking, RankedStrategy{
			Strategy:           s,
			DisplayName:        s.DisplayName(),
			EffectivenessScore: st.EffectivenessScore,
			Pulls:              st.Pulls,
			Successes:          st.Successes,
			CompletionRate:     st.CompletionRate(),
		})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].EffectivenessScore != ranking[j].EffectivenessScore {
			return ranking[i].EffectivenessScore > ranking[j].EffectivenessScore
		}
		return domain.CatalogIndex(ranking[i].Strategy) < domain.CatalogIndex(ranking[j].Strategy)
	})
	return ranking
}

// Build produces the full insight summary for one user's snapshot.
func (e *InsightEngine) Build(stats map[domain.Strategy]domain.StrategyStat, phase domain.ExperimentPhase) Insights {
	ranking := e.Rank(stats)

	totalPulls, totalSuccesses := 0, 0
	for _, r := range ranking {
		totalPulls += r.Pulls
		totalSuccesses += r.Successes
	}

	out := Insights{
		Ranking:          ranking,
		Phase:            phase,
		TotalPulls:       totalPulls,
		StrategiesTested: len(ranking),
	}
	if totalPulls > 0 {
		out.OverallCompletionRate = float64(totalSuccesses) / float64(totalPulls)
	}

	// Best and worst only over strategies with enough samples; both absent
	// unless at least two qualify.
	var qualified []RankedStrategy
	for _, r := range ranking {
		if r.Pulls >= e.minSample {
			qualified = append(qualified, r)
		}
	}
	if len(qualified) >= 2 {
		best := qualified[0]
		worst := qualified[len(qualified)-1]
		out.Best = &best
		out.Worst = &worst

		if worst.EffectivenessScore > 0 {
			improvement := (best.EffectivenessScore - worst.EffectivenessScore) / worst.EffectivenessScore * 100
			out.ImprovementVsWorst = &improvement
		}
	}

	out.Recommendation = e.recommendation(out)
	return out
}

func (e *InsightEngine) recommendation(in Insights) string {
	switch {
	case in.TotalPulls < 5:
		return "Keep going! We need more data to understand what motivates you best. Try responding to a few more check-ins."
	case in.Best == nil:
		return "Keep responding to check-ins to discover your motivation patterns!"
	default:
		return fmt.Sprintf("Based on %d check-ins, %s works best for you with a %.0f%% completion rate. Keep it up!",
			in.TotalPulls, in.Best.DisplayName, in.Best.CompletionRate*100)
	}
}
