package fetch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postvault/internal/config"
	"postvault/internal/document"
	"postvault/internal/store"
)

func newFetcher(t *testing.T, outDir string) *Fetcher {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, zap.NewNop().Sugar(), config.FetchConfig{OutputDir: outDir, RPS: 100, Burst: 10})
}

func TestDocumentsFromFeed(t *testing.T) {
	f := newFetcher(t, t.TempDir())
	published := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	feed := &gofeed.Feed{Items: []*gofeed.Item{
		{
			GUID:            "https://trilogy.substack.com/p/the-arm-revolution",
			Link:            "https://trilogy.substack.com/p/the-arm-revolution",
			Title:           "The ARM revolution",
			Description:     "Benchmarking the new chips.",
			PublishedParsed: &published,
		},
		{Title: "no id and no link"},
	}}

	docs := f.documentsFromFeed("trilogy", feed)
	require.Len(t, docs, 1)
	urn, ok := docs[0].URN()
	require.True(t, ok)
	assert.Equal(t, "substack:trilogy:the-arm-revolution", urn)
	assert.Equal(t, "article", docs[0].PostType)
	assert.Equal(t, published.UnixMilli(), docs[0].PostedAt.Timestamp)
	assert.Equal(t, "trilogy", docs[0].Author.Username)
}

func TestWrittenFileIsImportable(t *testing.T) {
	dir := t.TempDir()
	docs := []document.Document{{
		URNField: document.URNField{Scalar: "substack:trilogy:hello"},
		Author:   document.Author{Username: "trilogy"},
		Text:     "hello world",
		PostType: "article",
	}}
	path, err := writeDocuments(dir, "trilogy", docs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "trilogy.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := document.DecodeFile(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	urn, ok := decoded[0].URN()
	require.True(t, ok)
	assert.Equal(t, "substack:trilogy:hello", urn)
	assert.Equal(t, "hello world", decoded[0].Text)
}
