// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ManuGH/conflint/internal/history"
)

// runHistoryCmd lists recorded lint runs, newest first.
func runHistoryCmd(args []string) int {
	fs := flag.NewFlagSet("conflint history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		configPath string
		limit      int
		showRun    string
	)
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&configPath, "c", "", "path to YAML configuration file (shorthand)")
	fs.IntVar(&limit, "limit", 10, "maximum number of runs to list")
	fs.StringVar(&showRun, "run", "", "print the findings of one run by ID")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if limit <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --limit must be positive")
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 2
	}
	setupLogging(cfg)

	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()

	if showRun != "" {
		findings, err := store.Findings(ctx, showRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		if len(findings) == 0 {
			fmt.Printf("no findings recorded for run %s\n", showRun)
			return 0
		}
		for _, f := range findings {
			fmt.Println(f.String())
		}
		return 0
	}

	runs, err := store.Recent(ctx, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return 0
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tFILES\tERRORS\tWARNINGS\tINFOS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Format(time.RFC3339),
			time.Duration(r.DurationMS)*time.Millisecond,
			r.Files, r.Errors, r.Warnings, r.Infos)
	}
	return flushTab(tw)
}

func flushTab(tw *tabwriter.Writer) int {
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
