// Package jconfig implements the compiler's optional jactl.yaml
// configuration: debug level, target feature gates, and the checkpoint
// store DSN internal/checkpoint.OpenStore consumes.
//
// Grounded on internal/ext/config.go's funxy.yaml loader — same
// find-upward-from-cwd discovery, same gopkg.in/yaml.v3 unmarshal +
// validate + setDefaults shape, retargeted from Go-binding dependency
// declarations to compiler knobs.
package jconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level jactl.yaml document.
type Config struct {
	// Debug sets the diagnostics verbosity: "off", "error" (default),
	// "warn", or "trace".
	Debug string `yaml:"debug,omitempty"`

	// Features gates optional language features still under
	// development, keyed by name (e.g. "async", "checkpoint").
	Features map[string]bool `yaml:"features,omitempty"`

	// Checkpoint configures the durable checkpoint store.
	Checkpoint CheckpointConfig `yaml:"checkpoint,omitempty"`
}

// CheckpointConfig configures internal/checkpoint.OpenStore.
type CheckpointConfig struct {
	// Store is the sqlite DSN/path to persist checkpoints under. Empty
	// means the host must call checkpoint.Encode/Decode directly
	// without a Store (in-memory handoff only).
	Store string `yaml:"store,omitempty"`
}

var debugLevels = map[string]bool{"off": true, "error": true, "warn": true, "trace": true}

// LoadConfig reads and parses a jactl.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses jactl.yaml content from bytes. path is used only
// for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for jactl.yaml starting from dir and walking up
// to parent directories, the same upward-search internal/ext's
// FindConfig uses for funxy.yaml. Returns "" with a nil error when no
// config file is found — jactl.yaml is always optional.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		for _, name := range []string{"jactl.yaml", "jactl.yml"} {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) validate(path string) error {
	if c.Debug != "" && !debugLevels[c.Debug] {
		return fmt.Errorf("%s: debug: %q is not one of off, error, warn, trace", path, c.Debug)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Debug == "" {
		c.Debug = "error"
	}
}

// Default returns the configuration used when no jactl.yaml is found.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}
