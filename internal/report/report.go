// SPDX-License-Identifier: MIT

// Package report renders lint reports as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ManuGH/conflint/internal/lint"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be text or json)", s)
	}
}

// Render writes the report to w in the given format.
func Render(w io.Writer, r *lint.Report, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, r)
	default:
		return renderText(w, r)
	}
}

func renderText(w io.Writer, r *lint.Report) error {
	for _, fr := range r.Files {
		for _, f := range fr.Findings {
			suffix := ""
			if f.New {
				suffix = "  (new)"
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", f.String(), suffix); err != nil {
				return err
			}
		}
	}

	errs, warns, infos := r.Counts()
	if errs == 0 && warns == 0 && infos == 0 {
		_, err := fmt.Fprintf(w, "✓ %d file(s) clean\n", len(r.Files))
		return err
	}
	_, err := fmt.Fprintf(w, "%d file(s): %d error(s), %d warning(s), %d info\n",
		len(r.Files), errs, warns, infos)
	return err
}

type jsonReport struct {
	Files    []lint.FileReport `json:"files"`
	Errors   int               `json:"errors"`
	Warnings int               `json:"warnings"`
	Infos    int               `json:"infos"`
}

func renderJSON(w io.Writer, r *lint.Report) error {
	errs, warns, infos := r.Counts()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Files:    r.Files,
		Errors:   errs,
		Warnings: warns,
		Infos:    infos,
	})
}
