// SPDX-License-Identifier: MIT

// Package config provides configuration management for conflint.
package config

import "time"

// AppConfig is the effective tool configuration after merging defaults,
// the config file and CONFLINT_* environment overrides.
type AppConfig struct {
	// Files to lint.
	Manifests      []string
	LoggingConfigs []string

	// Behavior.
	Strict        bool
	RequirePinned bool
	Output        string // "text" or "json"
	Concurrency   int    // 0 = GOMAXPROCS

	// Watch mode.
	WatchDebounce time.Duration

	// Run history.
	HistoryEnabled bool
	HistoryPath    string

	// Logging.
	LogLevel string

	// Version of the binary, injected by the loader.
	Version string
}

// FileConfig mirrors the YAML layout of conflint.yaml. Pointer fields
// distinguish "absent" from zero values during the merge.
type FileConfig struct {
	Manifests      []string `yaml:"manifests"`
	LoggingConfigs []string `yaml:"loggingConfigs"`

	Strict        *bool   `yaml:"strict"`
	RequirePinned *bool   `yaml:"requirePinned"`
	Output        *string `yaml:"output"`
	Concurrency   *int    `yaml:"concurrency"`

	Watch *WatchFileConfig `yaml:"watch"`

	History *HistoryFileConfig `yaml:"history"`

	LogLevel *string `yaml:"logLevel"`
}

// WatchFileConfig is the "watch" block of conflint.yaml.
type WatchFileConfig struct {
	Debounce *string `yaml:"debounce"`
}

// HistoryFileConfig is the "history" block of conflint.yaml.
type HistoryFileConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Path    *string `yaml:"path"`
}
