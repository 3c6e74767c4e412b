// SPDX-License-Identifier: MIT
package lint

import (
	"context"
	"fmt"
	"testing"
)

// Results must come back in target order no matter how the goroutines are
// scheduled.
func TestRunnerPreservesTargetOrder(t *testing.T) {
	dir := t.TempDir()

	var targets []Target
	for i := 0; i < 20; i++ {
		path := writeFile(t, dir, fmt.Sprintf("req-%02d.txt", i),
			fmt.Sprintf("package%02d==1.0\n", i))
		targets = append(targets, Target{Path: path, Kind: TargetManifest})
	}

	runner := NewRunner(Options{}, 4)
	report, err := runner.Run(context.Background(), targets)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Files) != len(targets) {
		t.Fatalf("got %d file reports, want %d", len(report.Files), len(targets))
	}
	for i, fr := range report.Files {
		if fr.File != targets[i].Path {
			t.Errorf("report %d = %q, want %q", i, fr.File, targets[i].Path)
		}
	}
}

func TestRunnerMixedKinds(t *testing.T) {
	dir := t.TempDir()
	manifest := writeFile(t, dir, "requirements.txt", "requests==2.28.1\n")
	logging := writeFile(t, dir, "logging.conf", validLoggingConfig)
	broken := writeFile(t, dir, "broken.txt", "pytest>=2.0,<1.0\n")

	runner := NewRunner(Options{}, 0)
	report, err := runner.Run(context.Background(), []Target{
		{Path: manifest, Kind: TargetManifest},
		{Path: logging, Kind: TargetLoggingConfig},
		{Path: broken, Kind: TargetManifest},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !report.HasErrors() {
		t.Error("expected errors from broken manifest")
	}
	errs, warns, infos := report.Counts()
	if errs != 1 || warns != 0 || infos != 0 {
		t.Errorf("counts = %d/%d/%d, want 1/0/0", errs, warns, infos)
	}
	if len(report.Files[2].Findings) != 1 || report.Files[2].Findings[0].Rule != "REQ005" {
		t.Errorf("broken manifest findings = %v", report.Files[2].Findings)
	}
}

func TestRunnerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	path := writeFile(t, dir, "requirements.txt", "requests==2.28.1\n")

	runner := NewRunner(Options{}, 1)
	if _, err := runner.Run(ctx, []Target{{Path: path, Kind: TargetManifest}}); err == nil {
		t.Error("expected context error")
	}
}

func TestRunnerUnknownKind(t *testing.T) {
	runner := NewRunner(Options{}, 1)
	_, err := runner.Run(context.Background(), []Target{{Path: "x", Kind: TargetKind(99)}})
	if err == nil {
		t.Error("expected error for unknown target kind")
	}
}
