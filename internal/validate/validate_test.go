// SPDX-License-Identifier: MIT
package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatorAccumulates(t *testing.T) {
	v := New()
	if !v.IsValid() {
		t.Error("fresh validator must be valid")
	}
	if v.Err() != nil {
		t.Error("fresh validator Err() must be nil")
	}

	v.NotEmpty("A", "")
	v.OneOf("B", "xml", []string{"text", "json"})
	v.Range("C", 5, 10, 20)
	v.Positive("D", 0)

	if v.IsValid() {
		t.Fatal("validator must be invalid")
	}
	if len(v.Errors()) != 4 {
		t.Fatalf("got %d errors, want 4", len(v.Errors()))
	}

	err := v.Err()
	if err == nil {
		t.Fatal("Err() must be non-nil")
	}
	msg := err.Error()
	for _, field := range []string{"A", "B", "C", "D"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error message missing field %s: %q", field, msg)
		}
	}
	if strings.Count(msg, ";") != 3 {
		t.Errorf("multiple errors must be joined with ';': %q", msg)
	}
}

func TestValidatorPassingChecks(t *testing.T) {
	v := New()
	v.NotEmpty("A", "x")
	v.OneOf("B", "json", []string{"text", "json"})
	v.Range("C", 15, 10, 20)
	v.Positive("D", 1)
	if !v.IsValid() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}
}

func TestNotEmptyRejectsWhitespace(t *testing.T) {
	v := New()
	v.NotEmpty("A", "   \t")
	if v.IsValid() {
		t.Error("whitespace-only value must fail NotEmpty")
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte("requests\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := New()
	v.File("Manifest", path)
	if !v.IsValid() {
		t.Errorf("existing file must pass: %v", v.Errors())
	}

	v = New()
	v.File("Manifest", filepath.Join(dir, "missing.txt"))
	v.File("Manifest", dir) // a directory is not a file
	v.File("Manifest", "")
	if len(v.Errors()) != 3 {
		t.Errorf("got %d errors, want 3: %v", len(v.Errors()), v.Errors())
	}
}

func TestDirectoryCreatesWhenAllowed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	v := New()
	v.Directory("HistoryDir", dir, false)
	if !v.IsValid() {
		t.Fatalf("unexpected errors: %v", v.Errors())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}

	v = New()
	v.Directory("HistoryDir", filepath.Join(dir, "..", "escape"), false)
	if v.IsValid() {
		t.Error("path traversal must be rejected")
	}
}
