package sentiment

import (
	"math"
	"testing"
)

func TestClassifyEmptyIsNeutral(t *testing.T) {
	result := Classify("")
	if result.Polarity != 0 || result.Category != Neutral {
		t.Fatalf("expected neutral zero polarity, got %+v", result)
	}
}

func TestClassifyNoAffectTerms(t *testing.T) {
	result := Classify("the bus leaves at noon")
	if result.Polarity != 0 || result.Category != Neutral {
		t.Fatalf("expected neutral zero polarity, got %+v", result)
	}
}

func TestClassifyHappyAndGrateful(t *testing.T) {
	result := Classify("I am happy and grateful")
	if result.Polarity != 1 {
		t.Fatalf("expected polarity 1, got %f", result.Polarity)
	}
	if result.Category != VeryPositive {
		t.Fatalf("expected very positive, got %s", result.Category)
	}
}

func TestClassifySadAnxiousWorried(t *testing.T) {
	result := Classify("I feel sad and anxious and worried")
	if result.Polarity != -1 {
		t.Fatalf("expected polarity -1, got %f", result.Polarity)
	}
	if result.Category != VeryNegative {
		t.Fatalf("expected very negative, got %s", result.Category)
	}
}

func TestClassifyIsCaseInsensitiveSubstring(t *testing.T) {
	result := Classify("SADLY it rained")
	if result.Polarity != -1 {
		t.Fatalf("expected substring match on SADLY, got %+v", result)
	}
}

func TestClassifyMixedPolarity(t *testing.T) {
	// one positive, one negative
	result := Classify("happy but tired")
	if result.Polarity != 0 || result.Category != Neutral {
		t.Fatalf("expected balanced neutral, got %+v", result)
	}

	// two positive, one negative: 1/3
	result = Classify("happy and grateful but tired")
	if math.Abs(result.Polarity-1.0/3.0) > 1e-9 {
		t.Fatalf("expected polarity 1/3, got %f", result.Polarity)
	}
	if result.Category != Positive {
		t.Fatalf("expected positive, got %s", result.Category)
	}
}

func TestCategoryForThresholds(t *testing.T) {
	cases := []struct {
		polarity float64
		want     Category
	}{
		{1, VeryPositive},
		{0.51, VeryPositive},
		{0.5, Positive},
		{0.11, Positive},
		{0.1, Neutral},
		{0, Neutral},
		{-0.1, Neutral},
		{-0.11, Negative},
		{-0.5, Negative},
		{-0.51, VeryNegative},
		{-1, VeryNegative},
	}
	for _, tc := range cases {
		if got := CategoryFor(tc.polarity); got != tc.want {
			t.Fatalf("CategoryFor(%v) = %s, want %s", tc.polarity, got, tc.want)
		}
	}
}

func TestClassifyPolarityBoundedAndConsistent(t *testing.T) {
	inputs := []string{
		"",
		"great great great",
		"hopeless, lonely, worthless and afraid",
		"I love my calm mornings but work makes me stressed and nervous",
		"crystal retired glove",
		"Good news: I'm proud, confident and motivated!",
	}
	for _, input := range inputs {
		result := Classify(input)
		if result.Polarity < -1 || result.Polarity > 1 {
			t.Fatalf("polarity out of range for %q: %f", input, result.Polarity)
		}
		if result.Category != CategoryFor(result.Polarity) {
			t.Fatalf("category %s inconsistent with polarity %f for %q", result.Category, result.Polarity, input)
		}
	}
}

func TestLexiconsAreDisjoint(t *testing.T) {
	seen := make(map[string]bool, len(positiveTerms))
	for _, term := range positiveTerms {
		seen[term] = true
	}
	for _, term := range negativeTerms {
		if seen[term] {
			t.Fatalf("term %q present in both lexicons", term)
		}
	}
}
