// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ManuGH/conflint/internal/config"
	"github.com/ManuGH/conflint/internal/history"
	"github.com/ManuGH/conflint/internal/lint"
	xlog "github.com/ManuGH/conflint/internal/log"
	"github.com/ManuGH/conflint/internal/report"
)

func runLintCmd(args []string) int {
	fs := flag.NewFlagSet("conflint lint", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		configPath    string
		strict        bool
		requirePinned bool
		format        string
		jobs          int
		noHistory     bool
	)
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&configPath, "c", "", "path to YAML configuration file (shorthand)")
	fs.BoolVar(&strict, "strict", false, "escalate warnings to errors")
	fs.BoolVar(&requirePinned, "require-pinned", false, "require every requirement to be pinned with ==")
	fs.StringVar(&format, "format", "", "output format: text or json")
	fs.IntVar(&jobs, "jobs", 0, "number of files linted in parallel (0 = GOMAXPROCS)")
	fs.BoolVar(&noHistory, "no-history", false, "skip recording this run in the history database")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 2
	}

	// Flags beat file and environment, but only when actually given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			cfg.Strict = strict
		case "require-pinned":
			cfg.RequirePinned = requirePinned
		case "format":
			cfg.Output = format
		case "jobs":
			cfg.Concurrency = jobs
		}
	})
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 2
	}

	setupLogging(cfg)

	targets := buildTargets(cfg, fs.Args())
	if len(targets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files to lint (pass files or configure manifests/loggingConfigs)")
		return 2
	}

	outFormat, err := report.ParseFormat(cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	rep, rc := lintOnce(context.Background(), cfg, targets, !noHistory)
	if rep == nil {
		return rc
	}
	if err := report.Render(os.Stdout, rep, outFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: render report: %v\n", err)
		return 2
	}
	return rc
}

// lintOnce runs the linter over targets, records the run in history when
// enabled, and returns the report plus the process exit code.
func lintOnce(ctx context.Context, cfg config.AppConfig, targets []lint.Target, record bool) (*lint.Report, int) {
	runID := uuid.NewString()
	ctx = xlog.ContextWithRunID(ctx, runID)
	logger := xlog.WithComponentFromContext(ctx, "cli")

	started := time.Now()
	runner := lint.NewRunner(lint.Options{
		Strict:        cfg.Strict,
		RequirePinned: cfg.RequirePinned,
	}, cfg.Concurrency)

	rep, err := runner.Run(ctx, targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, 2
	}

	if cfg.HistoryEnabled && record {
		if err := recordRun(ctx, cfg, rep, started); err != nil {
			// History is best effort and never changes the lint result.
			logger.Warn().Err(err).Msg("history recording failed")
		}
	}

	if rep.HasErrors() {
		return rep, 1
	}
	return rep, 0
}

// recordRun marks findings that are new relative to the previous run, then
// persists the current run.
func recordRun(ctx context.Context, cfg config.AppConfig, rep *lint.Report, started time.Time) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	last, err := store.LastRun(ctx)
	if err != nil {
		return err
	}
	if last != nil {
		previous, err := store.Findings(ctx, last.ID)
		if err != nil {
			return err
		}
		history.MarkNew(previous, rep)
	}

	_, err = store.Record(ctx, rep, started, time.Since(started))
	return err
}
