// SPDX-License-Identifier: MIT

// Package history persists lint runs so later runs can report what changed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go driver

	"github.com/ManuGH/conflint/internal/lint"
)

const busyTimeout = 5 * time.Second

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	files       INTEGER NOT NULL,
	errors      INTEGER NOT NULL,
	warnings    INTEGER NOT NULL,
	infos       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS findings (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	file     TEXT NOT NULL,
	line     INTEGER NOT NULL,
	rule     TEXT NOT NULL,
	severity TEXT NOT NULL,
	message  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
`

// Run is one recorded lint run.
type Run struct {
	ID         string
	StartedAt  time.Time
	DurationMS int64
	Files      int
	Errors     int
	Warnings   int
	Infos      int
}

// Store is the sqlite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database at path.
// WAL mode and busy_timeout are enforced through the DSN so they apply to
// every connection in the pool.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("history: open failed: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; the CLI never reads concurrently

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a lint run and its findings, returning the run ID.
func (s *Store) Record(ctx context.Context, report *lint.Report, started time.Time, duration time.Duration) (string, error) {
	errs, warns, infos := report.Counts()
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, files, errors, warnings, infos)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, started.UnixMilli(), duration.Milliseconds(), len(report.Files), errs, warns, infos,
	); err != nil {
		return "", fmt.Errorf("history: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (run_id, file, line, rule, severity, message)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.All() {
		if _, err := stmt.ExecContext(ctx, id, f.File, f.Line, f.Rule, string(f.Severity), f.Message); err != nil {
			return "", fmt.Errorf("history: insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("history: commit: %w", err)
	}
	return id, nil
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, files, errors, warnings, infos
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var startedMs int64
		if err := rows.Scan(&r.ID, &startedMs, &r.DurationMS, &r.Files, &r.Errors, &r.Warnings, &r.Infos); err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(startedMs)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRun returns the most recent run, or nil when the store is empty.
func (s *Store) LastRun(ctx context.Context) (*Run, error) {
	runs, err := s.Recent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Findings returns the findings recorded for a run.
func (s *Store) Findings(ctx context.Context, runID string) ([]lint.Finding, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file, line, rule, severity, message
		 FROM findings WHERE run_id = ? ORDER BY file, line, rule, message`, runID)
	if err != nil {
		return nil, fmt.Errorf("history: query findings: %w", err)
	}
	defer rows.Close()

	var findings []lint.Finding
	for rows.Next() {
		var f lint.Finding
		var sev string
		if err := rows.Scan(&f.File, &f.Line, &f.Rule, &sev, &f.Message); err != nil {
			return nil, fmt.Errorf("history: scan finding: %w", err)
		}
		f.Severity = lint.Severity(sev)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// MarkNew flags report findings that were absent from the previous run.
// Findings are matched on (file, rule, message) so unrelated edits above a
// finding do not make it "new" just because its line moved.
func MarkNew(previous []lint.Finding, report *lint.Report) {
	seen := make(map[[3]string]struct{}, len(previous))
	for _, f := range previous {
		seen[[3]string{f.File, f.Rule, f.Message}] = struct{}{}
	}
	for fi := range report.Files {
		for i := range report.Files[fi].Findings {
			f := &report.Files[fi].Findings[i]
			if _, ok := seen[[3]string{f.File, f.Rule, f.Message}]; !ok {
				f.New = true
			}
		}
	}
}
