package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/solace/backend/internal/config"
	"github.com/zhouzirui/solace/backend/internal/model/article"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Wellbeing Weekly</title>
    <link>https://example.org</link>
    <item>
      <title>Five Minute Breathing</title>
      <link>https://example.org/breathing</link>
      <category>Breathing</category>
      <category>Stress</category>
      <description><![CDATA[<p>A <b>short</b> exercise   for busy days.</p>]]></description>
    </item>
    <item>
      <title>No link here</title>
      <description>dropped</description>
    </item>
  </channel>
</rss>`

const sampleFile = `articles:
  - id: journaling
    title: "  Journaling for Clarity "
    topics: [Journaling, Stress, stress]
    summary: Writing things down.
  - id: understanding-anxiety
    title: Duplicate of a seed entry
    topics: [anxiety]
`

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(sampleFeed))
		default:
			http.Error(w, "gone", http.StatusNotFound)
		}
	}))
}

func TestLoadFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	items, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "journaling", items[0].ID)
	assert.Equal(t, "Journaling for Clarity", items[0].Title)
	assert.Equal(t, []string{"journaling", "stress"}, items[0].Topics)
}

func TestLoadFileRejectsIncompleteEntries(t *testing.T) {
	_, err := parseFile([]byte("articles:\n  - title: missing id\n"))
	require.Error(t, err)

	_, err = parseFile([]byte("articles: [unterminated"))
	require.Error(t, err)
}

func TestFeedClientMapsItems(t *testing.T) {
	srv := feedServer(t)
	defer srv.Close()

	items, err := NewFeedClient(srv.Client()).Fetch(context.Background(), srv.URL+"/feed.xml")
	require.NoError(t, err)
	require.Len(t, items, 1)

	got := items[0]
	assert.Equal(t, "Five Minute Breathing", got.Title)
	assert.Equal(t, "https://example.org/breathing", got.URL)
	assert.Equal(t, []string{"breathing", "stress"}, got.Topics)
	assert.Equal(t, "A short exercise for busy days.", got.Summary)
	assert.Regexp(t, `^feed-[0-9a-f-]{36}$`, got.ID)

	again, err := NewFeedClient(srv.Client()).Fetch(context.Background(), srv.URL+"/feed.xml")
	require.NoError(t, err)
	assert.Equal(t, got.ID, again[0].ID, "ids are stable across fetches")
}

func TestFeedClientStatusError(t *testing.T) {
	srv := feedServer(t)
	defer srv.Close()

	_, err := NewFeedClient(srv.Client()).Fetch(context.Background(), srv.URL+"/missing.xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestBuildMergesSourcesInOrder(t *testing.T) {
	srv := feedServer(t)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	store := Build(context.Background(), config.CatalogConfig{
		File:        path,
		FeedURLs:    []string{srv.URL + "/missing.xml", srv.URL + "/feed.xml"},
		FeedTimeout: 5 * time.Second,
	}, nil)

	seed := article.Seed()
	items := store.List()
	require.Len(t, items, len(seed)+2)

	for i := range seed {
		assert.Equal(t, seed[i].ID, items[i].ID)
	}
	anxiety, ok := store.FindByID("understanding-anxiety")
	require.True(t, ok)
	assert.Equal(t, seed[0].Title, anxiety.Title, "seed entry wins over duplicate")

	assert.Equal(t, "journaling", items[len(seed)].ID)
	assert.Equal(t, "Five Minute Breathing", items[len(seed)+1].Title)
	assert.Contains(t, store.Topics(), "breathing")
}

func TestBuildWithMissingFileKeepsSeed(t *testing.T) {
	store := Build(context.Background(), config.CatalogConfig{File: filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	assert.Len(t, store.List(), len(article.Seed()))
}
