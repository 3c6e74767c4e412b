// SPDX-License-Identifier: MIT

package lint

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	xlog "github.com/ManuGH/conflint/internal/log"
)

// TargetKind selects the rule set applied to a file.
type TargetKind int

const (
	TargetManifest TargetKind = iota
	TargetLoggingConfig
)

// Target is one file to lint.
type Target struct {
	Path string
	Kind TargetKind
}

// Runner lints a set of targets concurrently. Findings come back in target
// order regardless of scheduling.
type Runner struct {
	opts  Options
	limit int
}

// NewRunner creates a runner. A limit of 0 uses GOMAXPROCS.
func NewRunner(opts Options, limit int) *Runner {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Runner{opts: opts, limit: limit}
}

// Run lints every target and assembles the report.
func (r *Runner) Run(ctx context.Context, targets []Target) (*Report, error) {
	logger := xlog.WithComponentFromContext(ctx, "lint")

	results := make([]FileReport, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch target.Kind {
			case TargetManifest:
				results[i] = LintManifest(target.Path, r.opts)
			case TargetLoggingConfig:
				results[i] = LintLoggingConfig(target.Path, r.opts)
			default:
				return fmt.Errorf("unknown target kind %d for %s", target.Kind, target.Path)
			}
			logger.Debug().
				Str("path", target.Path).
				Int("findings", len(results[i].Findings)).
				Msg("file linted")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Files: results}
	errs, warns, infos := report.Counts()
	logger.Info().
		Int("files", len(targets)).
		Int("errors", errs).
		Int("warnings", warns).
		Int("infos", infos).
		Msg("lint run complete")

	return report, nil
}
