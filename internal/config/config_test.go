package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/pkg/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.EqualValues(t, types.DefaultMaxInputBytes, cfg.MaxInputBytes)
	assert.Equal(t, runtime.NumCPU(), cfg.Concurrency)
	assert.Equal(t, "objects", cfg.ContainerKey)
	assert.Equal(t, "object_data", cfg.EntryKey)
	assert.True(t, cfg.Color)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, "concurrency: 2\ncollapse_depth: 3\ncolor: false\nentry_key: payload\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 3, cfg.CollapseDepth)
	assert.False(t, cfg.Color)
	assert.Equal(t, "payload", cfg.EntryKey)
	assert.Equal(t, "objects", cfg.ContainerKey)
	assert.Equal(t, path, cfg.Path)
	assert.Len(t, cfg.DecodeOptions(), 2)
}

func TestLoadFile_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := writeConfig(t, "log_dir: ~/logs\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogDir)

	path = writeConfig(t, "log_dir: ${HOME}/other\n")
	cfg, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, home+"/other", cfg.LogDir)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "concurrency: [", "config"},
		{"negative concurrency", "concurrency: -1", "concurrency must be positive"},
		{"zero max input", "max_input_bytes: 0", "max_input_bytes"},
		{"empty key", "container_key: \"\"", "container_key"},
		{"negative depth", "collapse_depth: -2", "collapse_depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Resolution(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvVar, "")

	// No file anywhere: defaults.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)

	// Default location.
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".ydockit"), 0o700))
	defaultPath := filepath.Join(home, ".ydockit", "config.yaml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("concurrency: 5\n"), 0o600))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Concurrency)

	// Environment beats default.
	envPath := writeConfig(t, "concurrency: 6\n")
	t.Setenv(EnvVar, envPath)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Concurrency)

	// Flag beats environment.
	cfg, err = Load(writeConfig(t, "concurrency: 7\n"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Concurrency)

	// An explicit path must exist.
	_, err = Load(filepath.Join(home, "missing.yaml"))
	assert.Error(t, err)
}

func TestLimits(t *testing.T) {
	cfg := Default()
	cfg.MaxInputBytes = 1 << 30
	l := cfg.Limits()
	assert.EqualValues(t, 1<<30, l.MaxInputBytes)
	assert.EqualValues(t, 1<<30, l.MaxDecodedBytes)
}
