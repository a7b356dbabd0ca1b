package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postvault/internal/store"
)

const samplePost = `[{
	"full_urn": "urn:li:activity:1111",
	"author": {"username": "cloudarchitect", "name": "Cloud Architect"},
	"text": "AWS announces new Graviton 4 processors",
	"posted_at": {"timestamp": 1733300000000, "date": "2025-12-04 14:30:00"},
	"post_type": "regular",
	"url": "https://example.com/1111",
	"stats": {"total_reactions": 42}
}]`

func newTestImporter(t *testing.T) (*Importer, *store.Store) {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewImporter(st, zap.NewNop().Sugar(), "linkedin"), st
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestImportTwiceDeduplicates(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "export.json", samplePost)

	run1, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run1)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, New: 1}, stats)
	require.NoError(t, run1.Complete(ctx, stats, ""))

	run2, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err = im.ImportDirectory(ctx, dir, run2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, Duplicates: 1}, stats)
	require.NoError(t, run2.Complete(ctx, stats, ""))

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "urn:li:activity:1111", posts[0].URN)
	assert.False(t, posts[0].IsRead)
	assert.False(t, posts[0].IsMarked)

	// The time series keeps one observation per sighting per run.
	obs, err := st.ObservationsForPost(ctx, posts[0].ID)
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.NotEqual(t, obs[0].RunID, obs[1].RunID)
	assert.Equal(t, int64(42), obs[0].TotalReactions)
}

func TestImportEmptyDirectory(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, t.TempDir(), run)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
	require.NoError(t, run.Complete(ctx, stats, ""))

	stored, err := st.GetRun(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, store.RunStatusCompleted, stored.Status)
	assert.False(t, stored.CompletedAt.IsZero())
}

func TestImportMissingDirectory(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	_, err = im.ImportDirectory(ctx, filepath.Join(t.TempDir(), "nope"), run)
	assert.Error(t, err)
}

func TestUnresolvableDocumentCountsErrorOnly(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "nourn.json", `[{"text": "no identity here"}]`)

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, Errors: 1}, stats)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	require.NoError(t, run.Complete(ctx, stats, ""))
	stored, err := st.GetRun(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, store.RunStatusFailed, stored.Status)
}

func TestMalformedFileAbortsOnlyThatFile(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "a_broken.json", `{"urn": `)
	writeFile(t, dir, "b_good.json", samplePost)

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, New: 1, Errors: 1}, stats)
}

func TestWrongShapeFileSkippedWithoutCounting(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "scalar.json", `"not a post export"`)
	writeFile(t, dir, "good.json", samplePost)

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, New: 1}, stats)
}

func TestSingleObjectFileTreatedAsOneElementArray(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "one.json", `{"urn": "urn:li:share:9", "text": "single object"}`)

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, New: 1}, stats)
}

func TestRepeatedURNWithinOneFileIsDuplicate(t *testing.T) {
	im, st := newTestImporter(t)
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, dir, "twice.json",
		`[{"urn": "urn:li:share:7", "text": "first sighting"},
		  {"urn": "urn:li:share:7", "text": "second sighting"}]`)

	run, err := StartRun(ctx, st, "test", "linkedin")
	require.NoError(t, err)
	stats, err := im.ImportDirectory(ctx, dir, run)
	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 2, New: 1, Duplicates: 1}, stats)

	posts, err := st.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	obs, err := st.ObservationsForPost(ctx, posts[0].ID)
	require.NoError(t, err)
	assert.Len(t, obs, 2)
}
