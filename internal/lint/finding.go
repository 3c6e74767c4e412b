// SPDX-License-Identifier: MIT

// Package lint evaluates conflint's rule set over requirement manifests and
// logging configurations and aggregates the findings.
package lint

import (
	"fmt"
	"sort"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one rule violation.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Value    string   `json:"value,omitempty"`
	New      bool     `json:"new,omitempty"` // not present in the previous recorded run
}

func (f Finding) String() string {
	return fmt.Sprintf("%s:%d: %s %s %s", f.File, f.Line, f.Severity, f.Rule, f.Message)
}

// FileReport collects the findings for one file.
type FileReport struct {
	File     string    `json:"file"`
	Findings []Finding `json:"findings"`
}

// Report is the result of one lint run.
type Report struct {
	Files []FileReport `json:"files"`
}

// sortFindings orders findings by (line, rule, message) for deterministic
// output.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}

// Counts returns the number of findings at each severity.
func (r *Report) Counts() (errors, warnings, infos int) {
	for _, fr := range r.Files {
		for _, f := range fr.Findings {
			switch f.Severity {
			case SeverityError:
				errors++
			case SeverityWarning:
				warnings++
			case SeverityInfo:
				infos++
			}
		}
	}
	return
}

// All returns every finding in report order.
func (r *Report) All() []Finding {
	var out []Finding
	for _, fr := range r.Files {
		out = append(out, fr.Findings...)
	}
	return out
}

// HasErrors reports whether any finding carries error severity.
func (r *Report) HasErrors() bool {
	errs, _, _ := r.Counts()
	return errs > 0
}
