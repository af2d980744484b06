package llm

import (
	"strings"
	"testing"

	"github.com/resolutionlab/coach/internal/domain"
)

func TestBuildGeneratePrompt(t *testing.T) {
	prompt := buildGeneratePrompt(domain.GenerateRequest{
		Strategy:        domain.StrategyStreakGamification,
		GoalTitle:       "Run every morning",
		GoalDescription: "5k before work",
		CurrentStreak:   7,
	})

	if !strings.Contains(prompt, "Run every morning") {
		t.Fatalf("expected goal title in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "5k before work") {
		t.Fatalf("expected description in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "Current streak: 7 days") {
		t.Fatalf("expected streak in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, "streaks") {
		t.Fatalf("expected strategy instruction in prompt, got %q", prompt)
	}
}

func TestBuildGeneratePrompt_OmitsEmptyContext(t *testing.T) {
	prompt := buildGeneratePrompt(domain.GenerateRequest{
		Strategy:  domain.StrategyGentleReminder,
		GoalTitle: "Meditate",
	})

	if strings.Contains(prompt, "Description:") {
		t.Fatalf("expected no description line, got %q", prompt)
	}
	if strings.Contains(prompt, "Current streak") {
		t.Fatalf("expected no streak line, got %q", prompt)
	}
}

func TestBuildGeneratePrompt_UnknownStrategyFallsBack(t *testing.T) {
	prompt := buildGeneratePrompt(domain.GenerateRequest{
		Strategy:  domain.Strategy("mystery"),
		GoalTitle: "Meditate",
	})
	if !strings.Contains(prompt, "gentle") {
		t.Fatalf("expected gentle-reminder instruction fallback, got %q", prompt)
	}
}

func TestParseJudgment(t *testing.T) {
	j, err := parseJudgment(`{"sentiment": "positive", "helpfulness": 0.8, "reasoning": "engaged"}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if j.Sentiment != domain.SentimentPositive {
		t.Fatalf("expected positive, got %q", j.Sentiment)
	}
	if j.Helpfulness != 0.8 {
		t.Fatalf("expected helpfulness 0.8, got %v", j.Helpfulness)
	}
}

func TestParseJudgment_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n{\"sentiment\": \"negative\", \"helpfulness\": 0.1}\n```"
	j, err := parseJudgment(raw)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if j.Sentiment != domain.SentimentNegative {
		t.Fatalf("expected negative, got %q", j.Sentiment)
	}
}

func TestParseJudgment_ClampsAndDefaults(t *testing.T) {
	j, err := parseJudgment(`{"sentiment": "ecstatic", "helpfulness": 3.5}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if j.Sentiment != domain.SentimentNeutral {
		t.Fatalf("expected unknown sentiment to default neutral, got %q", j.Sentiment)
	}
	if j.Helpfulness != 1.0 {
		t.Fatalf("expected helpfulness clamped to 1.0, got %v", j.Helpfulness)
	}
}

func TestParseJudgment_InvalidJSON(t *testing.T) {
	if _, err := parseJudgment("not json at all"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestNewClient_Providers(t *testing.T) {
	if _, err := NewClient(ProviderMock, ""); err != nil {
		t.Fatalf("expected mock provider without key, got %v", err)
	}
	if _, err := NewClient(ProviderOpenAI, ""); err == nil {
		t.Fatal("expected error for openai without key")
	}
	if _, err := NewClient(ProviderGemini, ""); err == nil {
		t.Fatal("expected error for gemini without key")
	}
	if _, err := NewClient("unknown", "key"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if _, err := NewClient(ProviderOpenAI, "sk-test"); err != nil {
		t.Fatalf("expected openai client with key, got %v", err)
	}
}
