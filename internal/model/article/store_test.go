package article

import "testing"

func TestMemoryStorePreservesOrder(t *testing.T) {
	seed := Seed()
	store := NewMemoryStore(seed)

	got := store.List()
	if len(got) != len(seed) {
		t.Fatalf("expected %d articles, got %d", len(seed), len(got))
	}
	for i := range seed {
		if got[i].ID != seed[i].ID {
			t.Fatalf("order changed at %d: got %s want %s", i, got[i].ID, seed[i].ID)
		}
	}
}

func TestMemoryStoreListIsACopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].Topics[0] = "mutated"
	list[0].Title = "mutated"

	again := store.List()
	if again[0].Title == "mutated" || again[0].Topics[0] == "mutated" {
		t.Fatal("catalog mutated through List result")
	}
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())
	if _, ok := store.FindByID("better-sleep"); !ok {
		t.Fatal("expected better-sleep to exist")
	}
	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("expected missing article lookup to fail")
	}
}

func TestMemoryStoreTopicsIncludeDefault(t *testing.T) {
	store := NewMemoryStore(nil)
	topics := store.Topics()
	if len(topics) != 1 || topics[0] != DefaultTopic {
		t.Fatalf("expected only default topic, got %v", topics)
	}

	topics = NewMemoryStore(Seed()).Topics()
	for i := 1; i < len(topics); i++ {
		if topics[i-1] >= topics[i] {
			t.Fatalf("topics not sorted/unique: %v", topics)
		}
	}
}
