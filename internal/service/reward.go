package service

import (
	"errors"

	"github.com/resolutionlab/coach/internal/domain"
)

// Reward weights are a fixed contract so scores stay comparable across
// strategies and over time. Not tunable per call.
const (
	rewardWeightCompletion = 0.6
	rewardWeightSpeed      = 0.2
	rewardWeightSentiment  = 0.2

	// Full speed credit for near-instant responses, linearly decaying to
	// zero at one hour or beyond.
	speedDecaySeconds = 3600.0
)

var ErrNegativeResponseTime = errors.New("response_time_seconds must not be negative")

var sentimentScores = map[domain.Sentiment]float64{
	domain.SentimentPositive: 1.0,
	domain.SentimentNeutral:  0.5,
	domain.SentimentNegative: 0.0,
}

// ComputeReward turns one outcome observation into a scalar reward in [0, 1].
// Missing sentiment defaults to neutral.
func ComputeReward(completed bool, responseTimeSeconds float64, sentiment domain.Sentiment) (float64, error) {
	if responseTimeSeconds < 0 {
		return 0, ErrNegativeResponseTime
	}

	completion := 0.0
	if completed {
		completion = 1.0
	}

	speed := 1.0 - responseTimeSeconds/speedDecaySeconds
	if speed < 0 {
		speed = 0
	}

	sentimentScore, ok := sentimentScores[sentiment]
	if !ok {
		sentimentScore = sentimentScores[domain.SentimentNeutral]
	}

	return rewardWeightCompletion*completion +
		rewardWeightSpeed*speed +
		rewardWeightSentiment*sentimentScore, nil
}
