package ai

import (
	"context"
	"strings"

	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
)

var mockReplies = map[sentiment.Category]Reply{
	sentiment.VeryPositive: {Text: "That's wonderful to hear! What's been the best part of it?", Emotion: "cheerful"},
	sentiment.Positive:     {Text: "I'm glad things are going well. Tell me more about what's helping.", Emotion: "warm"},
	sentiment.Neutral:      {Text: "Thanks for sharing. How are you feeling about it?", Emotion: "calm"},
	sentiment.Negative:     {Text: "That sounds hard. I'm here to listen. What's weighing on you most?", Emotion: "comfort"},
	sentiment.VeryNegative: {Text: "I'm really sorry you're feeling this way. You're not alone, and it's okay to reach out for support.", Emotion: "comfort"},
}

// MockGenerator answers from a fixed table keyed by the classified category.
type MockGenerator struct{}

// NewMockGenerator returns a deterministic offline generator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate never fails unless ctx is already done.
func (g *MockGenerator) Generate(ctx context.Context, userText string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	return mockReplies[sentiment.Classify(userText).Category], nil
}

// MockTranslator returns its input unchanged.
type MockTranslator struct{}

// NewMockTranslator returns a passthrough translator.
func NewMockTranslator() *MockTranslator {
	return &MockTranslator{}
}

func (t *MockTranslator) Translate(ctx context.Context, text, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
