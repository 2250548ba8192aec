package sentiment

import "strings"

// Category is one of the five polarity buckets.
type Category string

const (
	VeryPositive Category = "very_positive"
	Positive     Category = "positive"
	Neutral      Category = "neutral"
	Negative     Category = "negative"
	VeryNegative Category = "very_negative"
)

// Categories lists every category from most favourable to least.
func Categories() []Category {
	return []Category{VeryPositive, Positive, Neutral, Negative, VeryNegative}
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	switch c {
	case VeryPositive, Positive, Neutral, Negative, VeryNegative:
		return true
	default:
		return false
	}
}

// Result 给出文本的极性得分以及对应的分类。
type Result struct {
	Category Category `json:"category"`
	Polarity float64  `json:"polarity"`
}

var positiveTerms = []string{
	"happy", "grateful", "great", "good", "joy", "excited", "love", "calm", "hopeful", "proud",
	"relaxed", "wonderful", "amazing", "glad", "peaceful", "thankful", "better", "optimistic",
	"cheerful", "confident", "fantastic", "motivated",
}

var negativeTerms = []string{
	"sad", "anxious", "worried", "depressed", "hopeless", "angry", "lonely", "stressed", "scared",
	"afraid", "upset", "tired", "hurt", "overwhelmed", "miserable", "terrible", "awful", "nervous",
	"frustrated", "worthless", "cry", "panic",
}

// Classify scores text against the affect lexicon. Terms match as case-insensitive
// substrings, so "sadly" counts as "sad".
func Classify(text string) Result {
	normalized := strings.ToLower(text)
	if strings.TrimSpace(normalized) == "" {
		return Result{Category: Neutral, Polarity: 0}
	}

	positive := countTerms(normalized, positiveTerms)
	negative := countTerms(normalized, negativeTerms)

	total := positive + negative
	if total < 1 {
		total = 1
	}
	polarity := float64(positive-negative) / float64(total)

	return Result{Category: CategoryFor(polarity), Polarity: polarity}
}

// CategoryFor maps a polarity onto its category. Thresholds are checked from the
// top down and the first match wins.
func CategoryFor(polarity float64) Category {
	switch {
	case polarity > 0.5:
		return VeryPositive
	case polarity > 0.1:
		return Positive
	case polarity >= -0.1:
		return Neutral
	case polarity >= -0.5:
		return Negative
	default:
		return VeryNegative
	}
}

func countTerms(normalized string, terms []string) int {
	found := 0
	for _, term := range terms {
		if strings.Contains(normalized, term) {
			found++
		}
	}
	return found
}
