package domain

import "fmt"

// Strategy identifies one of the fixed intervention message styles the coach
// can send. The catalog is closed: strategies are known at build time and
// selection, ranking and tie-breaking all depend on the catalog order below.
type Strategy string

const (
	StrategyGentleReminder        Strategy = "gentle_reminder"
	StrategyAccountability        Strategy = "accountability"
	StrategyStreakGamification    Strategy = "streak_gamification"
	StrategySocialComparison      Strategy = "social_comparison"
	StrategyLossAversion          Strategy = "loss_aversion"
	StrategyRewardPreview         Strategy = "reward_preview"
	StrategyIdentityReinforcement Strategy = "identity_reinforcement"
	StrategyMicroCommitment       Strategy = "micro_commitment"
)

var catalog = []Strategy{
	StrategyGentleReminder,
	StrategyAccountability,
	StrategyStreakGamification,
	StrategySocialComparison,
	StrategyLossAversion,
	StrategyRewardPreview,
	StrategyIdentityReinforcement,
	StrategyMicroCommitment,
}

// Strategies returns the full catalog in its fixed order.
// Callers must not mutate the returned slice.
func Strategies() []Strategy {
	return catalog
}

func ValidStrategy(s string) bool {
	for _, c := range catalog {
		if Strategy(s) == c {
			return true
		}
	}
	return false
}

// CatalogIndex returns the position of s in the fixed catalog, or -1 if s is
// not a known strategy. Ranking uses it to break effectiveness ties.
func CatalogIndex(s Strategy) int {
	for i, c := range catalog {
		if s == c {
			return i
		}
	}
	return -1
}

// StrategyInfo carries the human-facing description of a strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

var strategyInfo = map[Strategy]StrategyInfo{
	StrategyGentleReminder: {
		Name:        "Gentle Reminder",
		Description: "Warm, friendly nudges that don't pressure",
		Example:     "Hey! Just a friendly reminder about your goal today.",
	},
	StrategyAccountability: {
		Name:        "Direct Accountability",
		Description: "Clear, direct check-ins asking if you did the thing",
		Example:     "Did you complete your goal today? Yes or No?",
	},
	StrategyStreakGamification: {
		Name:        "Streak & Gamification",
		Description: "Focus on maintaining streaks and progress",
		Example:     "Day 5 streak! Don't break the chain.",
	},
	StrategySocialComparison: {
		Name:        "Social Proof",
		Description: "Compare to what others like you are doing",
		Example:     "73% of similar users completed their goal today.",
	},
	StrategyLossAversion: {
		Name:        "Loss Framing",
		Description: "Highlight what you might lose by skipping",
		Example:     "You'll lose your 5-day progress if you skip today.",
	},
	StrategyRewardPreview: {
		Name:        "Reward Preview",
		Description: "Focus on the benefits and rewards ahead",
		Example:     "Complete today and you're 20% closer to your target!",
	},
	StrategyIdentityReinforcement: {
		Name:        "Identity-Based",
		Description: "Connect the action to who you're becoming",
		Example:     "You're becoming someone who exercises daily.",
	},
	StrategyMicroCommitment: {
		Name:        "Micro-Commitment",
		Description: "Ask for just a tiny, easy commitment",
		Example:     "Can you commit to just 5 minutes? That's all.",
	},
}

func (s Strategy) Info() StrategyInfo {
	return strategyInfo[s]
}

// DisplayName returns the human-readable name for a strategy, falling back to
// the raw identifier for unknown values.
func (s Strategy) DisplayName() string {
	if info, ok := strategyInfo[s]; ok {
		return info.Name
	}
	return string(s)
}

// FallbackMessage returns the canned message for a strategy, used when the
// generation service is unavailable. Every catalog strategy has one.
func FallbackMessage(s Strategy, goalTitle string) string {
	switch s {
	case StrategyGentleReminder:
		return fmt.Sprintf("Hey! Just a friendly reminder about your goal: %s", goalTitle)
	case StrategyAccountability:
		return fmt.Sprintf("Quick check-in: Did you complete '%s' today? Yes or No?", goalTitle)
	case StrategyStreakGamification:
		return fmt.Sprintf("Don't break your streak! Time to work on: %s", goalTitle)
	case StrategySocialComparison:
		return fmt.Sprintf("72%% of users with similar goals completed theirs today. Join them with: %s", goalTitle)
	case StrategyLossAversion:
		return fmt.Sprintf("Don't lose your progress! Your goal '%s' is waiting.", goalTitle)
	case StrategyRewardPreview:
		return fmt.Sprintf("Imagine how great you'll feel after completing: %s", goalTitle)
	case StrategyIdentityReinforcement:
		return fmt.Sprintf("You're becoming someone who achieves their goals. Prove it with: %s", goalTitle)
	case StrategyMicroCommitment:
		return fmt.Sprintf("Can you commit to just 5 minutes on '%s'? That's all I ask.", goalTitle)
	default:
		return fmt.Sprintf("Time to work on: %s", goalTitle)
	}
}
