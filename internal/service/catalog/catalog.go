// Package catalog assembles the article catalog at startup from the built-in
// seed list, an optional YAML file and optional RSS/Atom feeds.
package catalog

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/solace/backend/internal/config"
	"github.com/zhouzirui/solace/backend/internal/logging"
	"github.com/zhouzirui/solace/backend/internal/model/article"
)

const maxConcurrentFeeds = 4

// Build merges all configured sources into a read-only store. Sources that fail
// to load are logged and skipped; the seed list is always present.
func Build(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) *article.MemoryStore {
	logger = logging.OrNop(logger).Named("catalog")

	sources := [][]article.Article{article.Seed()}

	if cfg.File != "" {
		items, err := LoadFile(cfg.File)
		if err != nil {
			logger.Warn("catalog file skipped", zap.String("path", cfg.File), zap.Error(err))
		} else {
			sources = append(sources, items)
		}
	}

	if len(cfg.FeedURLs) > 0 {
		client := NewFeedClient(&http.Client{Timeout: cfg.FeedTimeout})
		sources = append(sources, fetchFeeds(ctx, client, cfg.FeedURLs, logger)...)
	}

	items := merge(logger, sources...)
	logger.Info("catalog ready", zap.Int("articles", len(items)))
	return article.NewMemoryStore(items)
}

// fetchFeeds 并发拉取订阅，结果按配置顺序返回。
func fetchFeeds(ctx context.Context, client *FeedClient, urls []string, logger *zap.Logger) [][]article.Article {
	results := make([][]article.Article, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFeeds)
	for i, feedURL := range urls {
		g.Go(func() error {
			items, err := client.Fetch(gctx, feedURL)
			if err != nil {
				logger.Warn("catalog feed skipped", zap.String("url", feedURL), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// merge concatenates sources in order, dropping later duplicates by ID.
func merge(logger *zap.Logger, sources ...[]article.Article) []article.Article {
	seen := make(map[string]struct{})
	var out []article.Article
	for _, source := range sources {
		for _, item := range source {
			if _, ok := seen[item.ID]; ok {
				logger.Debug("duplicate article dropped", zap.String("id", item.ID))
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
