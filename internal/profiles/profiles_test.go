package profiles

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postvault/internal/store"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewManager(st, "linkedin")
}

func TestSyncFromCSV(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "input-data.csv")
	csv := "name,username\nCloud Architect,cloudarchitect\nML Expert,mlexpert\n,missingname\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	stats, err := m.SyncFromCSV(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, SyncStats{Added: 2, Skipped: 1}, stats)

	// Re-sync with a renamed profile: updates, no new rows.
	csv = "name,username\nCloud Architect II,cloudarchitect\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	stats, err = m.SyncFromCSV(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, SyncStats{Updated: 1}, stats)

	got, err := m.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Cloud Architect II", got[0].Name)
}

func TestSyncMissingFileIsNoWork(t *testing.T) {
	m := newManager(t)
	stats, err := m.SyncFromCSV(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)
	assert.Equal(t, SyncStats{}, stats)
}

func TestExportRoundTrip(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	_, err := m.Add(ctx, "devopsguru", "DevOps Guru", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "profiles.csv")
	require.NoError(t, m.ExportToCSV(ctx, path, true))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "name,username\nDevOps Guru,devopsguru\n", string(data))
}
