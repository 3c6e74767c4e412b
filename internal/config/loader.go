// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied before file and environment merging.
const (
	DefaultOutput        = "text"
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultHistoryPath   = ".conflint/history.db"
	DefaultLogLevel      = "info"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
	}
}

// Load loads configuration with precedence: ENV > File > Defaults
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	// 1. Set defaults
	l.setDefaults(&cfg)

	// 2. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	// 3. Override with environment variables (highest priority)
	mergeEnvConfig(&cfg)

	// 4. Version from binary
	cfg.Version = l.version

	// 5. Validate final configuration
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (l *Loader) setDefaults(cfg *AppConfig) {
	cfg.Output = DefaultOutput
	cfg.WatchDebounce = DefaultWatchDebounce
	cfg.HistoryPath = DefaultHistoryPath
	cfg.LogLevel = DefaultLogLevel
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, file *FileConfig) {
	if len(file.Manifests) > 0 {
		cfg.Manifests = file.Manifests
	}
	if len(file.LoggingConfigs) > 0 {
		cfg.LoggingConfigs = file.LoggingConfigs
	}
	if file.Strict != nil {
		cfg.Strict = *file.Strict
	}
	if file.RequirePinned != nil {
		cfg.RequirePinned = *file.RequirePinned
	}
	if file.Output != nil {
		cfg.Output = *file.Output
	}
	if file.Concurrency != nil {
		cfg.Concurrency = *file.Concurrency
	}
	if file.Watch != nil && file.Watch.Debounce != nil {
		if d, err := time.ParseDuration(*file.Watch.Debounce); err == nil {
			cfg.WatchDebounce = d
		}
	}
	if file.History != nil {
		if file.History.Enabled != nil {
			cfg.HistoryEnabled = *file.History.Enabled
		}
		if file.History.Path != nil {
			cfg.HistoryPath = *file.History.Path
		}
	}
	if file.LogLevel != nil {
		cfg.LogLevel = *file.LogLevel
	}
}

func mergeEnvConfig(cfg *AppConfig) {
	cfg.Manifests = ParseList("CONFLINT_MANIFESTS", cfg.Manifests)
	cfg.LoggingConfigs = ParseList("CONFLINT_LOGGING_CONFIGS", cfg.LoggingConfigs)
	cfg.Strict = ParseBool("CONFLINT_STRICT", cfg.Strict)
	cfg.RequirePinned = ParseBool("CONFLINT_REQUIRE_PINNED", cfg.RequirePinned)
	cfg.Output = ParseString("CONFLINT_OUTPUT", cfg.Output)
	cfg.Concurrency = ParseInt("CONFLINT_CONCURRENCY", cfg.Concurrency)
	cfg.WatchDebounce = ParseDuration("CONFLINT_WATCH_DEBOUNCE", cfg.WatchDebounce)
	cfg.HistoryEnabled = ParseBool("CONFLINT_HISTORY_ENABLED", cfg.HistoryEnabled)
	cfg.HistoryPath = ParseString("CONFLINT_HISTORY_PATH", cfg.HistoryPath)
	cfg.LogLevel = ParseString("CONFLINT_LOG_LEVEL", cfg.LogLevel)
}
