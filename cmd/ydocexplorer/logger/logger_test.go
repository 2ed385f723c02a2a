package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	dir := t.TempDir()
	closer, err := Init(Options{Enabled: false, LogDir: dir})
	require.NoError(t, err)
	require.NoError(t, closer.Close())

	Info("dropped")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInit_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	closer, err := Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug, now: func() time.Time { return now }})
	require.NoError(t, err)
	t.Cleanup(func() { L = slog.New(slog.DiscardHandler) })

	Debug("document loaded", "name", "doc.bin")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "ydocexplorer-2025-03-09.log"))
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "document loaded", rec["msg"])
	assert.Equal(t, "doc.bin", rec["name"])
	assert.Equal(t, "DEBUG", rec["level"])
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	files := map[string]bool{
		"ydocexplorer-2025-03-08.log": true,  // recent
		"ydocexplorer-2025-01-01.log": false, // expired
		"ydocexplorer-garbage.log":    true,  // unparseable date
		"other-2020-01-01.log":        true,  // not ours
	}
	for name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	cleanOldLogs(dir, now)

	for name, keep := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if keep {
			assert.NoError(t, err, name)
		} else {
			assert.True(t, os.IsNotExist(err), name)
		}
	}
}
