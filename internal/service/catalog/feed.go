package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/zhouzirui/solace/backend/internal/model/article"
)

const (
	maxFeedBytes   = 5 * 1024 * 1024
	maxSummaryRune = 280
)

// FeedClient 拉取 RSS/Atom 订阅并转换为目录文章。
type FeedClient struct {
	httpClient *http.Client
	parser     *gofeed.Parser
}

// NewFeedClient returns a client using httpClient, or http.DefaultClient when nil.
func NewFeedClient(httpClient *http.Client) *FeedClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FeedClient{httpClient: httpClient, parser: gofeed.NewParser()}
}

// Fetch downloads feedURL and maps every usable item to an Article.
func (c *FeedClient) Fetch(ctx context.Context, feedURL string) ([]article.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	out := make([]article.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if a, ok := itemArticle(item); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func itemArticle(it *gofeed.Item) (article.Article, bool) {
	if it == nil {
		return article.Article{}, false
	}
	title := strings.TrimSpace(it.Title)
	link := itemLink(it)
	if title == "" || link == "" {
		return article.Article{}, false
	}

	summary := plainText(it.Description)
	if summary == "" {
		summary = plainText(it.Content)
	}

	return normalize(article.Article{
		ID:      "feed-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String(),
		Title:   title,
		Topics:  it.Categories,
		Summary: truncateRunes(summary, maxSummaryRune),
		URL:     link,
	}), true
}

func itemLink(it *gofeed.Item) string {
	if s := strings.TrimSpace(it.Link); s != "" {
		return s
	}
	guid := strings.TrimSpace(it.GUID)
	if strings.HasPrefix(guid, "http://") || strings.HasPrefix(guid, "https://") {
		return guid
	}
	return ""
}

// plainText 去掉 HTML 标签并折叠空白。
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
