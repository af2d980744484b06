package llm

import (
	"context"

	"github.com/resolutionlab/coach/internal/domain"
)

// MockClient is a configurable coach LLM for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	GenerateResponse string
	GenerateError    error
	JudgeResponse    domain.SentimentJudgment
	JudgeError       error

	// Call tracking for assertions
	GenerateCalls []domain.GenerateRequest
	JudgeCalls    []struct{ Message, Feedback string }
}

func NewMockClient() *MockClient {
	return &MockClient{
		GenerateResponse: "Mock motivation message",
		JudgeResponse: domain.SentimentJudgment{
			Sentiment:   domain.SentimentNeutral,
			Helpfulness: 0.5,
		},
	}
}

func (c *MockClient) GenerateMessage(ctx context.Context, req domain.GenerateRequest) (string, error) {
	c.GenerateCalls = append(c.GenerateCalls, req)
	if c.GenerateError != nil {
		return "", c.GenerateError
	}
	return c.GenerateResponse, nil
}

func (c *MockClient) JudgeSentiment(ctx context.Context, interventionMessage, feedback string) (domain.SentimentJudgment, error) {
	c.JudgeCalls = append(c.JudgeCalls, struct{ Message, Feedback string }{interventionMessage, feedback})
	if c.JudgeError != nil {
		return domain.SentimentJudgment{}, c.JudgeError
	}
	return c.JudgeResponse, nil
}
