// Package config loads the CLI's YAML configuration: where the
// external tree-edit-distance solver and patcher script live, and
// where the solver-result cache is stored.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	treediff "github.com/pagereplay/treediff"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file's base name under DefaultConfigDir.
	FileName = "config.yaml"
	// DefaultConfigDir is searched under the user's home directory.
	DefaultConfigDir = ".config/treediff"
	// LocalFileName is checked in the current working directory before
	// falling back to the home-directory default.
	LocalFileName = "treediff.yaml"
)

var globalConfigPath string

// SetConfigPath overrides the config file location for this process,
// set from the CLI's --config flag.
func SetConfigPath(path string) { globalConfigPath = path }

// Config is the CLI's persisted configuration.
type Config struct {
	// AptedJarPath is the external tree-edit-distance solver jar.
	AptedJarPath string `yaml:"apted_jar_path,omitempty"`
	// PatcherScriptPath points at the JS injected as the JSON-mode
	// output's main-patcher.
	PatcherScriptPath string `yaml:"patcher_script_path,omitempty"`
	// CacheDBPath is the SQLite database backing the solver-result
	// cache; empty disables caching.
	CacheDBPath string `yaml:"cache_db_path,omitempty"`
	// DefaultMode is "html" or "json" when the CLI's mode argument is
	// omitted.
	DefaultMode string `yaml:"default_mode,omitempty"`
	// Minify enables output minification via tdewolff/minify.
	Minify bool `yaml:"minify,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DefaultMode: "html",
		Minify:      false,
		Version:     "1.0",
	}
}

// Path resolves the active config file location: the path set via
// SetConfigPath, else ./treediff.yaml if present in the working
// directory, else ~/.config/treediff/config.yaml.
func Path() (string, error) {
	if globalConfigPath != "" {
		return globalConfigPath, nil
	}
	if _, err := os.Stat(LocalFileName); err == nil {
		return LocalFileName, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: resolving home directory: %v", treediff.ErrIO, err)
	}
	return filepath.Join(home, DefaultConfigDir, FileName), nil
}

// Load reads the config file, falling back to Default() if it does
// not exist.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", treediff.ErrIO, path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", treediff.ErrIO, path, err)
	}
	return cfg, nil
}

// Save writes cfg to the active config path, creating its directory
// if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating config directory: %v", treediff.ErrIO, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshaling config: %v", treediff.ErrIO, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", treediff.ErrIO, path, err)
	}
	return nil
}
