// SPDX-License-Identifier: MIT

package requirements

import "strings"

// Format renders the manifest in canonical form: requirement lines are
// rewritten (canonical name, sorted extras, sorted specifiers), everything
// else keeps its text. Comments and blank lines survive in place.
func Format(f *File) string {
	var b strings.Builder
	for _, line := range f.Lines {
		b.WriteString(renderLine(line))
		b.WriteString("\n")
	}
	return b.String()
}

func renderLine(line Line) string {
	var content string
	switch line.Kind {
	case KindBlank:
		return ""
	case KindComment:
		return "# " + line.Comment
	case KindRequirement:
		content = line.Req.String()
	default:
		// Directives, options, URL requirements and unparseable lines keep
		// their original text; fmt never guesses at their canonical form.
		content = line.Raw
	}
	if line.Comment != "" {
		return content + "  # " + line.Comment
	}
	return content
}

// Changed reports whether formatting would alter the manifest text.
func Changed(f *File, original string) bool {
	return Format(f) != normalizeNewlines(original)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}
