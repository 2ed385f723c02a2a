// Package config loads the optional settings file shared by ydocctl and
// ydocexplorer.
//
// The file is looked up at, in order:
//   - the --config flag, when given,
//   - the YDOCKIT_CONFIG environment variable,
//   - ~/.ydockit/config.yaml.
//
// A missing file at the default location is not an error; defaults apply.
// A file named explicitly must exist.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/ydockit/pkg/decode"
	"github.com/joshuapare/ydockit/pkg/types"
)

// EnvVar names the environment variable holding the config path.
const EnvVar = "YDOCKIT_CONFIG"

// Config holds user settings.
type Config struct {
	// MaxInputBytes bounds the size of an input file.
	// Default: 64 MB
	MaxInputBytes int64 `yaml:"max_input_bytes"`

	// Concurrency bounds parallel decodes in a batch.
	// Default: number of CPUs
	Concurrency int `yaml:"concurrency"`

	// CollapseDepth collapses tree nodes at this depth and deeper when a
	// document is first shown. 0 shows everything expanded.
	CollapseDepth int `yaml:"collapse_depth"`

	// ContainerKey and EntryKey name the preferred decode shape.
	// Default: objects / object_data
	ContainerKey string `yaml:"container_key"`
	EntryKey     string `yaml:"entry_key"`

	// Color enables colored output when the terminal supports it.
	// Default: true
	Color bool `yaml:"color"`

	// LogDir is where ydocexplorer writes debug logs.
	// Default: ~/.ydocexplorer/logs
	LogDir string `yaml:"log_dir"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxInputBytes: types.DefaultMaxInputBytes,
		Concurrency:   runtime.NumCPU(),
		ContainerKey:  decode.DefaultContainerKey,
		EntryKey:      decode.DefaultEntryKey,
		Color:         true,
	}
}

// DefaultPath returns ~/.ydockit/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ydockit", "config.yaml"), nil
}

// Load resolves the config path (flag, then environment, then default) and
// loads it. explicit is the --config flag value, possibly empty.
func Load(explicit string) (*Config, error) {
	if explicit != "" {
		return LoadFile(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return LoadFile(env)
	}
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	cfg, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile loads configuration from a specific file path on top of the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands a leading ~ and ${HOME} in paths.
func (c *Config) expandVariables() {
	if c.LogDir == "" {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	if c.LogDir == "~" || strings.HasPrefix(c.LogDir, "~/") {
		c.LogDir = filepath.Join(home, strings.TrimPrefix(c.LogDir, "~"))
	}
	c.LogDir = strings.ReplaceAll(c.LogDir, "${HOME}", home)
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxInputBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_input_bytes must be positive, got %d", c.MaxInputBytes))
	}
	if c.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.CollapseDepth < 0 {
		errs = append(errs, fmt.Errorf("collapse_depth must not be negative, got %d", c.CollapseDepth))
	}
	if c.ContainerKey == "" {
		errs = append(errs, errors.New("container_key must not be empty"))
	}
	if c.EntryKey == "" {
		errs = append(errs, errors.New("entry_key must not be empty"))
	}
	return errors.Join(errs...)
}

// Limits returns input limits derived from the config.
func (c *Config) Limits() types.Limits {
	return types.DefaultLimits().WithMaxInput(c.MaxInputBytes)
}

// DecodeOptions returns the decoder options implied by the config.
func (c *Config) DecodeOptions() []decode.Option {
	return []decode.Option{
		decode.WithContainerKey(c.ContainerKey),
		decode.WithEntryKey(c.EntryKey),
	}
}
