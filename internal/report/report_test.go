// SPDX-License-Identifier: MIT
package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ManuGH/conflint/internal/lint"
)

func sampleReport() *lint.Report {
	return &lint.Report{
		Files: []lint.FileReport{
			{
				File: "requirements.txt",
				Findings: []lint.Finding{
					{Rule: "REQ002", Severity: lint.SeverityError, File: "requirements.txt", Line: 4,
						Message: `duplicate requirement "requests" (first declared on line 3)`},
					{Rule: "REQ006", Severity: lint.SeverityInfo, File: "requirements.txt", Line: 4,
						Message: `name "Requests" is not in canonical form "requests"`, New: true},
				},
			},
			{File: "logging.conf"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("text"); err != nil {
		t.Errorf("text: %v", err)
	}
	if _, err := ParseFormat("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("yaml must be rejected")
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatText); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "requirements.txt:4: error REQ002") {
		t.Errorf("missing finding line in output:\n%s", out)
	}
	if !strings.Contains(out, "(new)") {
		t.Errorf("new findings must be marked:\n%s", out)
	}
	if !strings.Contains(out, "2 file(s): 1 error(s), 0 warning(s), 1 info") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestRenderTextClean(t *testing.T) {
	var buf bytes.Buffer
	clean := &lint.Report{Files: []lint.FileReport{{File: "a.txt"}, {File: "b.conf"}}}
	if err := Render(&buf, clean, FormatText); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "✓ 2 file(s) clean") {
		t.Errorf("missing clean summary: %q", buf.String())
	}
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var decoded struct {
		Files []struct {
			File     string `json:"file"`
			Findings []struct {
				Rule string `json:"rule"`
				New  bool   `json:"new"`
			} `json:"findings"`
		} `json:"files"`
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
		Infos    int `json:"infos"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Errors != 1 || decoded.Infos != 1 {
		t.Errorf("counts = %+v", decoded)
	}
	if len(decoded.Files) != 2 || decoded.Files[0].Findings[1].Rule != "REQ006" {
		t.Errorf("files = %+v", decoded.Files)
	}
	if !decoded.Files[0].Findings[1].New {
		t.Error("new flag lost in JSON output")
	}
}
