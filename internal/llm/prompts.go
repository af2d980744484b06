package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/resolutionlab/coach/internal/domain"
)

const generateSystemPrompt = `You are Resolution Coach, an AI coach helping users achieve their goals.
Your task is to generate a short, personalized motivation message.

Rules:
1. Be concise - maximum 2 sentences
2. Be personal - use "you" language
3. Match the strategy style exactly
4. Reference the specific goal naturally
5. Never be preachy or lecture the user
6. Sound human, not robotic

Output ONLY the message text, nothing else.`

var strategyPrompts = map[domain.Strategy]string{
	domain.StrategyGentleReminder: `You are a friendly, supportive coach. Generate a warm, gentle reminder about the user's goal.
Keep it light and encouraging. Maximum 2 sentences.`,

	domain.StrategyAccountability: `You are a direct accountability partner. Ask the user clearly and directly if they completed their goal.
Be respectful but firm. Request a clear Yes/No response. Maximum 2 sentences.`,

	domain.StrategyStreakGamification: `You are a gamification coach focused on streaks and progress.
Emphasize the user's current streak and the importance of not breaking it. Make it feel like a game. Maximum 2 sentences.`,

	domain.StrategySocialComparison: `You are sharing social proof and comparison data.
Mention that a percentage of similar users completed their goal today (use a realistic percentage like 65-80%).
Make the user feel they can be part of the successful group. Maximum 2 sentences.`,

	domain.StrategyLossAversion: `You are highlighting what the user might lose if they skip today.
Frame the message around potential loss of progress, momentum, or their streak.
Be motivating through the fear of loss, but not harsh. Maximum 2 sentences.`,

	domain.StrategyRewardPreview: `You are focusing on the rewards and benefits of completing the goal.
Paint a picture of how good they'll feel or what progress they'll make. Maximum 2 sentences.`,

	domain.StrategyIdentityReinforcement: `You are reinforcing the user's identity as someone who achieves this goal.
Use phrases like "You're becoming someone who..." or "This is who you are now." Maximum 2 sentences.`,

	domain.StrategyMicroCommitment: `You are asking for a tiny, minimal commitment.
Ask if they can commit to just 5 minutes or the smallest possible version of their goal.
Make it feel easy and achievable. Maximum 2 sentences.`,
}

const sentimentJudgePrompt = `You are an expert at analyzing user sentiment in response to motivational messages.

Intervention sent: %s
User's response: %s

Evaluate and return a JSON object with:
1. "sentiment": one of "positive", "neutral", or "negative"
   - positive: user seems motivated, grateful, engaged, or enthusiastic
   - neutral: user acknowledged but showed no strong emotion
   - negative: user seems annoyed, frustrated, dismissive, or disengaged
2. "helpfulness": a number from 0.0 to 1.0 indicating how much the intervention seemed to help
3. "reasoning": a brief explanation (1 sentence)

Return ONLY valid JSON, no other text.`

func buildGeneratePrompt(req domain.GenerateRequest) string {
	instruction, ok := strategyPrompts[req.Strategy]
	if !ok {
		instruction = strategyPrompts[domain.StrategyGentleReminder]
	}

	var context []string
	context = append(context, "Goal: "+req.GoalTitle)
	if req.GoalDescription != "" {
		context = append(context, "Description: "+req.GoalDescription)
	}
	if req.CurrentStreak > 0 {
		context = append(context, fmt.Sprintf("Current streak: %d days", req.CurrentStreak))
	}

	return fmt.Sprintf("Strategy to use:\n%s\n\nContext:\n%s\n\nGenerate the intervention message now:",
		instruction, strings.Join(context, "\n"))
}

// parseJudgment parses the judge's JSON reply, tolerating markdown fences and
// clamping unexpected values to neutral.
func parseJudgment(raw string) (domain.SentimentJudgment, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var result struct {
		Sentiment   string  `json:"sentiment"`
		Helpfulness float64 `json:"helpfulness"`
		Reasoning   string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return domain.SentimentJudgment{}, fmt.Errorf("parse judgment: %w", err)
	}

	sentiment := domain.Sentiment(strings.ToLower(result.Sentiment))
	if !domain.ValidSentiment(string(sentiment)) {
		sentiment = domain.SentimentNeutral
	}
	if result.Helpfulness < 0 {
		result.Helpfulness = 0
	}
	if result.Helpfulness > 1 {
		result.Helpfulness = 1
	}

	return domain.SentimentJudgment{
		Sentiment:   sentiment,
		Helpfulness: result.Helpfulness,
		Reasoning:   result.Reasoning,
	}, nil
}
