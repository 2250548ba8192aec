package recommend

import (
	"strings"

	"github.com/zhouzirui/solace/backend/internal/model/article"
)

// FallbackCount is how many catalog entries are returned when nothing qualifies.
const FallbackCount = 3

// Recommend filters catalog down to the articles relevant to text. An article
// qualifies when one of its topic tags occurs in the lower-cased text, or when it
// carries selectedTopic and selectedTopic is not article.DefaultTopic. Qualifying
// articles keep catalog order. When none qualify the first FallbackCount entries
// are returned instead.
func Recommend(text, selectedTopic string, catalog []article.Article) []article.Article {
	normalized := strings.ToLower(text)
	topicFilter := selectedTopic != "" && selectedTopic != article.DefaultTopic

	matched := make([]article.Article, 0, len(catalog))
	for _, item := range catalog {
		if mentionsTopic(normalized, item.Topics) || (topicFilter && item.HasTopic(selectedTopic)) {
			matched = append(matched, item)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	n := FallbackCount
	if len(catalog) < n {
		n = len(catalog)
	}
	return append([]article.Article(nil), catalog[:n]...)
}

func mentionsTopic(normalized string, topics []string) bool {
	for _, topic := range topics {
		tag := strings.ToLower(strings.TrimSpace(topic))
		if tag == "" {
			continue
		}
		if strings.Contains(normalized, tag) {
			return true
		}
	}
	return false
}
