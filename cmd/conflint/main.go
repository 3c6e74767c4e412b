// SPDX-License-Identifier: MIT

// conflint lints and formats dependency manifests and INI logging
// configurations.
//
// Usage:
//
//	conflint lint [flags] [file ...]
//	conflint fmt [flags] [file ...]
//	conflint watch [flags]
//	conflint history [flags]
//	conflint version
//
// Exit codes:
//   - 0: No errors found
//   - 1: Lint errors found (or files need reformatting with fmt --check)
//   - 2: Usage or configuration error
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/conflint/internal/config"
	"github.com/ManuGH/conflint/internal/lint"
	xlog "github.com/ManuGH/conflint/internal/log"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	// Bare flags mean "lint" was implied, e.g. `conflint --strict req.txt`.
	if strings.HasPrefix(args[0], "-") && args[0] != "-h" && args[0] != "--help" && args[0] != "--version" {
		os.Exit(runLintCmd(args))
	}

	switch args[0] {
	case "lint":
		os.Exit(runLintCmd(args[1:]))
	case "fmt":
		os.Exit(runFmtCmd(args[1:]))
	case "watch":
		os.Exit(runWatchCmd(args[1:]))
	case "history":
		os.Exit(runHistoryCmd(args[1:]))
	case "version", "--version":
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	case "-h", "--help", "help":
		printUsage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  conflint lint [--config conflint.yaml] [--strict] [--format text|json] [file ...]")
	fmt.Fprintln(os.Stderr, "  conflint fmt [--check] [file ...]")
	fmt.Fprintln(os.Stderr, "  conflint watch [--config conflint.yaml]")
	fmt.Fprintln(os.Stderr, "  conflint history [--limit N]")
	fmt.Fprintln(os.Stderr, "  conflint version")
}

// setupLogging configures the process logger with safe defaults, then applies
// the loaded configuration.
func setupLogging(cfg config.AppConfig) {
	xlog.Configure(xlog.Config{
		Level:   "info",
		Service: "conflint",
		Version: version,
	})
	xlog.Reconfigure(xlog.Config{
		Level:   cfg.LogLevel,
		Service: "conflint",
		Version: version,
	})
}

// loadConfig loads the effective configuration. An empty path falls back to
// conflint.yaml in the working directory when that file exists.
func loadConfig(path string) (config.AppConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		if _, err := os.Stat("conflint.yaml"); err == nil {
			path = "conflint.yaml"
		}
	}
	loader := config.NewLoader(path, version)
	return loader.Load()
}

// classifyPath guesses the rule set for a file named on the command line.
// INI-style extensions get the logging rules, everything else the manifest
// rules.
func classifyPath(path string) lint.TargetKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".conf", ".cfg":
		return lint.TargetLoggingConfig
	default:
		return lint.TargetManifest
	}
}

// buildTargets merges configured files with files named on the command line.
func buildTargets(cfg config.AppConfig, extra []string) []lint.Target {
	var targets []lint.Target
	for _, m := range cfg.Manifests {
		targets = append(targets, lint.Target{Path: m, Kind: lint.TargetManifest})
	}
	for _, lc := range cfg.LoggingConfigs {
		targets = append(targets, lint.Target{Path: lc, Kind: lint.TargetLoggingConfig})
	}
	for _, path := range extra {
		targets = append(targets, lint.Target{Path: path, Kind: classifyPath(path)})
	}
	return targets
}
