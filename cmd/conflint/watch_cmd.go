// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/conflint/internal/report"
	"github.com/ManuGH/conflint/internal/watch"
)

// runWatchCmd lints once, then re-lints whenever a watched file changes,
// until interrupted.
func runWatchCmd(args []string) int {
	fs := flag.NewFlagSet("conflint watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var configPath string
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&configPath, "c", "", "path to YAML configuration file (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 2
	}
	setupLogging(cfg)

	targets := buildTargets(cfg, fs.Args())
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files to watch (pass files or configure manifests/loggingConfigs)")
		return 2
	}

	outFormat, err := report.ParseFormat(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) error {
		rep, rc := lintOnce(ctx, cfg, targets, true)
		if rep == nil {
			return fmt.Errorf("lint run aborted (exit %d)", rc)
		}
		return report.Render(os.Stdout, rep, outFormat)
	}

	// Initial run before entering the watch loop.
	if err := runOnce(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	w, err := watch.New(targets, cfg.WatchDebounce, runOnce)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
