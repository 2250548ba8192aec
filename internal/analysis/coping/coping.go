package coping

import "github.com/zhouzirui/solace/backend/internal/analysis/sentiment"

// DefaultSuggestion is returned for anything outside the category set.
const DefaultSuggestion = "Take a slow breath and give yourself a moment. Whatever you are feeling is valid."

var suggestions = map[sentiment.Category]string{
	sentiment.VeryPositive: "That's wonderful to hear! Consider writing down what made today good so you can come back to it later.",
	sentiment.Positive:     "It's great that you're feeling good. A short walk or a message to a friend can help keep that momentum going.",
	sentiment.Neutral:      "Checking in with yourself is a good habit. Try noticing three things around you that you can see, hear, and feel.",
	sentiment.Negative:     "It sounds like things are a bit hard right now. Try the 4-7-8 breathing exercise: breathe in for 4, hold for 7, out for 8.",
	sentiment.VeryNegative: "I'm sorry you're going through this. Please consider reaching out to someone you trust or a support line. You don't have to face this alone.",
}

// Suggest returns the coping advice for a category.
func Suggest(category sentiment.Category) string {
	if text, ok := suggestions[category]; ok {
		return text
	}
	return DefaultSuggestion
}
