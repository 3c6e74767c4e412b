// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	loader := NewLoader("", "test-version")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Output != "text" {
		t.Errorf("expected Output=text, got %s", cfg.Output)
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("expected WatchDebounce=500ms, got %v", cfg.WatchDebounce)
	}
	if cfg.HistoryPath != ".conflint/history.db" {
		t.Errorf("expected default history path, got %s", cfg.HistoryPath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %s", cfg.LogLevel)
	}
	if cfg.Version != "test-version" {
		t.Errorf("expected Version=test-version, got %s", cfg.Version)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.yaml")

	yamlContent := `
manifests:
  - requirements.txt
  - requirements-optional.txt
loggingConfigs:
  - logging.conf
strict: true
requirePinned: true
output: json
concurrency: 4
watch:
  debounce: 250ms
history:
  enabled: true
  path: /tmp/conflint-history.db
logLevel: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader(configPath, "v").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Manifests) != 2 || cfg.Manifests[0] != "requirements.txt" {
		t.Errorf("manifests = %v", cfg.Manifests)
	}
	if len(cfg.LoggingConfigs) != 1 {
		t.Errorf("loggingConfigs = %v", cfg.LoggingConfigs)
	}
	if !cfg.Strict || !cfg.RequirePinned {
		t.Error("strict/requirePinned not applied")
	}
	if cfg.Output != "json" || cfg.Concurrency != 4 {
		t.Errorf("output=%s concurrency=%d", cfg.Output, cfg.Concurrency)
	}
	if cfg.WatchDebounce != 250*time.Millisecond {
		t.Errorf("debounce = %v", cfg.WatchDebounce)
	}
	if !cfg.HistoryEnabled || cfg.HistoryPath != "/tmp/conflint-history.db" {
		t.Errorf("history = %v %s", cfg.HistoryEnabled, cfg.HistoryPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("logLevel = %s", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.yaml")
	if err := os.WriteFile(configPath, []byte("manifests: [a.txt]\nbogusField: 1\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := NewLoader(configPath, "v").Load()
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	if !errors.Is(err, ErrUnknownConfigField) {
		t.Errorf("error %v is not ErrUnknownConfigField", err)
	}
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.yaml")
	if err := os.WriteFile(configPath, []byte("output: text\n---\noutput: json\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := NewLoader(configPath, "v").Load(); err == nil {
		t.Fatal("expected error for multi-document config")
	}
}

func TestLoadRejectsNonYAMLExtension(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := NewLoader(configPath, "v").Load(); err == nil {
		t.Fatal("expected error for non-YAML extension")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.yaml")
	if err := os.WriteFile(configPath, nil, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := NewLoader(configPath, "v").Load()
	if err != nil {
		t.Fatalf("empty config must load defaults: %v", err)
	}
	if cfg.Output != "text" {
		t.Errorf("output = %s, want default text", cfg.Output)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "conflint.yaml")
	if err := os.WriteFile(configPath, []byte("output: text\nstrict: false\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFLINT_OUTPUT", "json")
	t.Setenv("CONFLINT_STRICT", "true")
	t.Setenv("CONFLINT_MANIFESTS", "a.txt, b.txt")
	t.Setenv("CONFLINT_WATCH_DEBOUNCE", "2s")

	cfg, err := NewLoader(configPath, "v").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Output != "json" || !cfg.Strict {
		t.Errorf("env overrides not applied: output=%s strict=%v", cfg.Output, cfg.Strict)
	}
	if len(cfg.Manifests) != 2 || cfg.Manifests[1] != "b.txt" {
		t.Errorf("manifests = %v", cfg.Manifests)
	}
	if cfg.WatchDebounce != 2*time.Second {
		t.Errorf("debounce = %v", cfg.WatchDebounce)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("CONFLINT_STRICT", "not-a-bool")
	t.Setenv("CONFLINT_CONCURRENCY", "many")
	t.Setenv("CONFLINT_WATCH_DEBOUNCE", "soon")

	cfg, err := NewLoader("", "v").Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Strict || cfg.Concurrency != 0 || cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("invalid env must fall back to defaults, got %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad output", func(c *AppConfig) { c.Output = "xml" }},
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"negative concurrency", func(c *AppConfig) { c.Concurrency = -1 }},
		{"debounce too small", func(c *AppConfig) { c.WatchDebounce = time.Millisecond }},
		{"history without path", func(c *AppConfig) { c.HistoryEnabled = true; c.HistoryPath = "" }},
		{"empty manifest entry", func(c *AppConfig) { c.Manifests = []string{""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{
				Output:        DefaultOutput,
				WatchDebounce: DefaultWatchDebounce,
				HistoryPath:   DefaultHistoryPath,
				LogLevel:      DefaultLogLevel,
			}
			tt.mutate(&cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
