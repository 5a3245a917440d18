// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding the configuration
// file path.
const EnvConfig = "GRAFT_CONFIG"

// Config is graft's tool configuration. It is separate from the .graft
// mapping files, which describe what to graft; this describes how the
// tool behaves.
type Config struct {
	// ConfigName is the mapping file name searched for in each
	// ancestor directory.
	// Default: .graft
	ConfigName string `yaml:"config_name"`

	// Log configures diagnostic output.
	Log LogConfig `yaml:"log"`

	// Launcher configures the replacement process.
	Launcher LauncherConfig `yaml:"launcher"`
}

// LogConfig configures diagnostic output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// LauncherConfig configures the replacement process.
type LauncherConfig struct {
	// LibraryPath entries are prepended to LD_LIBRARY_PATH in the
	// replacement environment. ${VAR} and ${VAR:-default} are expanded.
	// Default: empty (LD_LIBRARY_PATH untouched)
	LibraryPath []string `yaml:"library_path"`
}

// Default returns the default configuration, used as the base before
// loading a file and on its own when no file is configured.
func Default() *Config {
	return &Config{
		ConfigName: ".graft",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the GRAFT_CONFIG environment variable.
// Unlike the mapping file, tool configuration is optional: when
// GRAFT_CONFIG is unset the defaults are returned.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvConfig)
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc may contain comments and trailing commas; anything
// else is YAML.
//
// Environment variables do not override config values. The only
// expansion performed is ${VAR} and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// JSON is valid YAML once comments and trailing commas are gone.
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	for i, entry := range c.Launcher.LibraryPath {
		c.Launcher.LibraryPath[i] = expandVars(entry, vars)
	}
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.ConfigName == "":
		errs = append(errs, fmt.Errorf("config_name is required"))
	case c.ConfigName == "." || c.ConfigName == ".." || strings.ContainsRune(c.ConfigName, '/'):
		errs = append(errs, fmt.Errorf("config_name must be a plain file name, got %q", c.ConfigName))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	for i, entry := range c.Launcher.LibraryPath {
		if !filepath.IsAbs(entry) {
			errs = append(errs, fmt.Errorf("launcher.library_path[%d] must be absolute, got %q", i, entry))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
