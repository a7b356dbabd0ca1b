package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "postvault.yaml")
	cfg := Default()
	cfg.Storage.DBPath = "/tmp/test.db"
	cfg.Filter.Threshold = 70
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", loaded.Storage.DBPath)
	assert.Equal(t, 70, loaded.Filter.Threshold)
	assert.Equal(t, "linkedin", loaded.Platform)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postvault.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: substack\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "substack", cfg.Platform)
	assert.Equal(t, 80, cfg.Filter.Threshold)
	assert.Equal(t, "data/posts_v2.db", cfg.Storage.DBPath)
}
