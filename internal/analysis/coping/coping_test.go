package coping

import (
	"testing"

	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
)

func TestSuggestCoversEveryCategory(t *testing.T) {
	seen := make(map[string]sentiment.Category)
	for _, category := range sentiment.Categories() {
		text := Suggest(category)
		if text == "" || text == DefaultSuggestion {
			t.Fatalf("expected dedicated suggestion for %s", category)
		}
		if prev, dup := seen[text]; dup {
			t.Fatalf("categories %s and %s share a suggestion", prev, category)
		}
		seen[text] = category
	}
}

func TestSuggestUnknownCategoryFallsBack(t *testing.T) {
	if got := Suggest(sentiment.Category("ecstatic")); got != DefaultSuggestion {
		t.Fatalf("expected default suggestion, got %q", got)
	}
	if got := Suggest(""); got != DefaultSuggestion {
		t.Fatalf("expected default suggestion for empty category, got %q", got)
	}
}
