// Package config loads the runner's own settings from .logical-task.yaml.
//
// The file is optional. Every field has a default, and command-line flags
// override whatever the file says.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory.
const FileName = ".logical-task.yaml"

// Defaults applied by Load.
const (
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "console"
	DefaultHistoryPath      = ".logical-task/history.db"
	DefaultContainerWorkdir = "/workspace"
)

// LogConfig selects the level and encoding of the runner's own log output.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// HistoryConfig controls the SQLite database of executed steps.
type HistoryConfig struct {
	// Enabled is a pointer so that an omitted key keeps the default (on).
	Enabled *bool  `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	// Textfile is where step metrics are written after a run. Empty
	// disables metrics output.
	Textfile string `yaml:"textfile" json:"textfile"`
}

// ContainerConfig selects container execution and the workspace mount point.
type ContainerConfig struct {
	// Image enables container execution when set.
	Image   string `yaml:"image" json:"image"`
	Workdir string `yaml:"workdir" json:"workdir"`
}

// Config is the parsed content of .logical-task.yaml.
type Config struct {
	Log       LogConfig       `yaml:"log" json:"log"`
	History   HistoryConfig   `yaml:"history" json:"history"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Container ContainerConfig `yaml:"container" json:"container"`
}

var (
	errInvalidLevel  = errors.New("log.level must be one of debug, info, warn, error")
	errInvalidFormat = errors.New("log.format must be console or json")
	errRelativeMount = errors.New("container.workdir must be an absolute path")
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.validateAndDefault()
	return cfg
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicit when set, which must then exist. Otherwise it
// loads FileName from dir if present and falls back to Default.
func Resolve(dir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errInvalidLevel
	}

	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return errInvalidFormat
	}

	if c.History.Enabled == nil {
		enabled := true
		c.History.Enabled = &enabled
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}

	if c.Container.Workdir == "" {
		c.Container.Workdir = DefaultContainerWorkdir
	}
	if !filepath.IsAbs(c.Container.Workdir) {
		return errRelativeMount
	}
	return nil
}

// HistoryEnabled reports whether steps should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}
