// SPDX-License-Identifier: MIT

package lint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/conflint/internal/requirements"
)

// Options controls rule severity and toggles.
type Options struct {
	Strict        bool // escalate REQ003/REQ008 to errors
	RequirePinned bool // enable REQ003
}

// LintManifest lints one requirements manifest.
func LintManifest(path string, opts Options) FileReport {
	report := FileReport{File: path}

	file, err := requirements.ParseFile(path)
	if err != nil {
		report.Findings = []Finding{{
			Rule:     "REQ001",
			Severity: SeverityError,
			File:     path,
			Message:  err.Error(),
		}}
		return report
	}

	report.Findings = lintManifestFile(file, opts)
	sortFindings(report.Findings)
	return report
}

func lintManifestFile(file *requirements.File, opts Options) []Finding {
	var findings []Finding
	add := func(rule string, sev Severity, line int, msg, value string) {
		findings = append(findings, Finding{
			Rule:     rule,
			Severity: sev,
			File:     file.Path,
			Line:     line,
			Message:  msg,
			Value:    value,
		})
	}

	escalate := func(sev Severity) Severity {
		if opts.Strict {
			return SeverityError
		}
		return sev
	}

	firstSeen := map[string]int{} // canonical name -> first line

	for _, line := range file.Lines {
		switch line.Kind {
		case requirements.KindInvalid:
			rule := "REQ001"
			if errors.Is(line.Err, requirements.ErrSpecifier) {
				rule = "REQ004"
			}
			add(rule, SeverityError, line.Number, line.Err.Error(), line.Raw)

		case requirements.KindRequirement:
			req := line.Req

			if first, dup := firstSeen[req.Canonical]; dup {
				add("REQ002", SeverityError, line.Number,
					fmt.Sprintf("duplicate requirement %q (first declared on line %d)", req.Canonical, first),
					req.Name)
			} else {
				firstSeen[req.Canonical] = line.Number
			}

			if opts.RequirePinned && !req.Specifiers.Pinned() {
				add("REQ003", escalate(SeverityWarning), line.Number,
					fmt.Sprintf("requirement %q is not pinned to an exact version", req.Name),
					req.Specifiers.String())
			}

			if !req.Specifiers.Satisfiable() {
				add("REQ005", SeverityError, line.Number,
					fmt.Sprintf("specifier set %q matches no version", req.Specifiers.String()),
					req.Name)
			}

			if req.Name != req.Canonical {
				add("REQ006", SeverityInfo, line.Number,
					fmt.Sprintf("name %q is not in canonical form %q", req.Name, req.Canonical),
					req.Name)
			}

		case requirements.KindDirective:
			if isRemote(line.RefPath) {
				break
			}
			target := line.RefPath
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(file.Path), target)
			}
			if !fileExists(target) {
				add("REQ007", SeverityError, line.Number,
					fmt.Sprintf("included file %q does not exist", line.RefPath),
					line.RefPath)
			}

		case requirements.KindEditable:
			add("REQ008", escalate(SeverityWarning), line.Number,
				"editable requirement is not reproducible", line.RefPath)

		case requirements.KindURL:
			add("REQ008", escalate(SeverityWarning), line.Number,
				"direct URL requirement is not index-resolvable", line.Raw)
		}
	}

	return findings
}

func isRemote(ref string) bool {
	return strings.Contains(ref, "://")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
