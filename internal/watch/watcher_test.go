// SPDX-License-Identifier: MIT
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ManuGH/conflint/internal/lint"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeTarget(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherTriggersOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	writeTarget(t, path, "requests==2.28.1\n")

	var runs atomic.Int32
	ran := make(chan struct{}, 8)

	w, err := New([]lint.Target{{Path: path, Kind: lint.TargetManifest}}, 50*time.Millisecond,
		func(ctx context.Context) error {
			runs.Add(1)
			ran <- struct{}{}
			return nil
		})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	writeTarget(t, path, "requests==2.28.2\n")

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for lint run")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

// Rapid successive writes within the debounce window collapse into one run.
func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	writeTarget(t, path, "requests==2.28.1\n")

	var runs atomic.Int32
	w, err := New([]lint.Target{{Path: path, Kind: lint.TargetManifest}}, 150*time.Millisecond,
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 5; i++ {
		writeTarget(t, path, "requests==2.28.2\n")
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}

	cancel()
	<-done
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "requirements.txt")
	other := filepath.Join(dir, "notes.md")
	writeTarget(t, target, "requests==2.28.1\n")

	var runs atomic.Int32
	w, err := New([]lint.Target{{Path: target, Kind: lint.TargetManifest}}, 50*time.Millisecond,
		func(ctx context.Context) error {
			runs.Add(1)
			return nil
		})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	writeTarget(t, other, "scratch\n")
	time.Sleep(300 * time.Millisecond)

	if got := runs.Load(); got != 0 {
		t.Errorf("runs = %d, want 0 for unrelated file", got)
	}

	cancel()
	<-done
}
