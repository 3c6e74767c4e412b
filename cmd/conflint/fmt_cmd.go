// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/conflint/internal/fsutil"
	xlog "github.com/ManuGH/conflint/internal/log"
	"github.com/ManuGH/conflint/internal/requirements"
)

// runFmtCmd canonicalizes requirement manifests in place. Logging configs are
// left alone since INI files carry layout the owner chose deliberately.
func runFmtCmd(args []string) int {
	fs := flag.NewFlagSet("conflint fmt", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		configPath string
		check      bool
	)
	fs.StringVar(&configPath, "config", "", "path to YAML configuration file")
	fs.StringVar(&configPath, "c", "", "path to YAML configuration file (shorthand)")
	fs.BoolVar(&check, "check", false, "report files that would change without rewriting them")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error:\n  %v\n", err)
		return 2
	}
	setupLogging(cfg)

	paths := append([]string{}, cfg.Manifests...)
	paths = append(paths, fs.Args()...)
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no manifests to format (pass files or configure manifests)")
		return 2
	}

	ctx := context.Background()
	logger := xlog.WithComponent("fmt")

	changed := 0
	for _, path := range paths {
		// #nosec G304 -- manifest paths come from the operator
		original, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read %s: %v\n", path, err)
			return 2
		}

		f, err := requirements.ParseFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: parse %s: %v\n", path, err)
			return 2
		}
		if !requirements.Changed(f, string(original)) {
			continue
		}
		changed++

		if check {
			fmt.Printf("would reformat %s\n", path)
			continue
		}

		formatted := requirements.Format(f)
		err = fsutil.WriteAtomic(ctx, path, func(w io.Writer) error {
			_, err := io.WriteString(w, formatted)
			return err
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: write %s: %v\n", path, err)
			return 2
		}
		logger.Info().Str("path", path).Msg("manifest reformatted")
		fmt.Printf("reformatted %s\n", path)
	}

	if check && changed > 0 {
		return 1
	}
	if changed == 0 {
		fmt.Printf("✓ %d file(s) already formatted\n", len(paths))
	}
	return 0
}
