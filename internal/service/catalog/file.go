package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/solace/backend/internal/model/article"
)

type catalogFile struct {
	Articles []article.Article `yaml:"articles"`
}

// LoadFile 读取 YAML 格式的文章目录文件。
func LoadFile(path string) ([]article.Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) ([]article.Article, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	out := make([]article.Article, 0, len(file.Articles))
	for i, item := range file.Articles {
		item = normalize(item)
		if item.ID == "" || item.Title == "" {
			return nil, fmt.Errorf("catalog entry %d: id and title are required", i)
		}
		out = append(out, item)
	}
	return out, nil
}

func normalize(a article.Article) article.Article {
	a.ID = strings.TrimSpace(a.ID)
	a.Title = strings.TrimSpace(a.Title)
	a.Summary = strings.TrimSpace(a.Summary)
	a.URL = strings.TrimSpace(a.URL)

	topics := make([]string, 0, len(a.Topics))
	seen := make(map[string]struct{}, len(a.Topics))
	for _, t := range a.Topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}
	a.Topics = topics
	return a
}
