package recommend

import (
	"reflect"
	"testing"

	"github.com/zhouzirui/solace/backend/internal/model/article"
)

func testCatalog() []article.Article {
	return []article.Article{
		{ID: "a", Title: "Anxiety", Topics: []string{"anxiety", "anxious"}},
		{ID: "b", Title: "Sleep", Topics: []string{"sleep", "tired"}},
		{ID: "c", Title: "Stress", Topics: []string{"stress", "work"}},
		{ID: "d", Title: "Mindfulness", Topics: []string{"mindfulness", "general"}},
		{ID: "e", Title: "Anger", Topics: []string{"anger"}},
	}
}

func ids(items []article.Article) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestRecommendMatchesTopicSubstrings(t *testing.T) {
	got := ids(Recommend("So TIRED after work today", article.DefaultTopic, testCatalog()))
	want := []string{"b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRecommendSelectedTopic(t *testing.T) {
	got := ids(Recommend("nothing relevant here", "anger", testCatalog()))
	want := []string{"e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}

	// text match and topic match combine in catalog order
	got = ids(Recommend("feeling anxious", "anger", testCatalog()))
	want = []string{"a", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestRecommendDefaultTopicIsNotAFilter(t *testing.T) {
	got := ids(Recommend("hello there", article.DefaultTopic, testCatalog()))
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fallback %v, got %v", want, got)
	}
}

func TestRecommendFallbackShortCatalog(t *testing.T) {
	catalog := testCatalog()[:2]
	got := Recommend("", "", catalog)
	if len(got) != 2 {
		t.Fatalf("expected whole short catalog, got %d", len(got))
	}
	if out := Recommend("anything", "", nil); len(out) != 0 {
		t.Fatalf("expected empty result for empty catalog, got %v", out)
	}
}

func TestRecommendIsStable(t *testing.T) {
	catalog := testCatalog()
	first := Recommend("stress and sleep", "anger", catalog)
	second := Recommend("stress and sleep", "anger", catalog)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %v vs %v", ids(first), ids(second))
	}
}
