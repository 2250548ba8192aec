package article

import "sort"

// Store exposes the read-only article catalog.
type Store interface {
	List() []Article
	FindByID(id string) (Article, bool)
	Topics() []string
}

// MemoryStore implements Store with an in-memory slice that preserves catalog order.
type MemoryStore struct {
	items []Article
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied articles.
func NewMemoryStore(items []Article) *MemoryStore {
	return &MemoryStore{items: cloneArticles(items)}
}

// List returns the catalog in its static order.
func (s *MemoryStore) List() []Article {
	return cloneArticles(s.items)
}

// FindByID looks up an article by identifier.
func (s *MemoryStore) FindByID(id string) (Article, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return cloneArticle(item), true
		}
	}
	return Article{}, false
}

// Topics returns the sorted set of topic tags across the catalog, always including DefaultTopic.
func (s *MemoryStore) Topics() []string {
	set := map[string]struct{}{DefaultTopic: {}}
	for _, item := range s.items {
		for _, topic := range item.Topics {
			set[topic] = struct{}{}
		}
	}

	topics := make([]string, 0, len(set))
	for topic := range set {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func cloneArticles(items []Article) []Article {
	out := make([]Article, len(items))
	for i, item := range items {
		out[i] = cloneArticle(item)
	}
	return out
}

func cloneArticle(a Article) Article {
	a.Topics = append([]string(nil), a.Topics...)
	return a
}
