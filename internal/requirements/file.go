// SPDX-License-Identifier: MIT

package requirements

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// LineKind classifies a logical manifest line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindComment
	KindRequirement
	KindDirective // -r/--requirement, -c/--constraint
	KindEditable  // -e/--editable
	KindURL       // direct URL or VCS requirement
	KindOption    // other global options (--index-url, --no-binary, ...)
	KindInvalid
)

// Line is one logical line of a manifest. Continuation lines are joined
// before classification; Number is the line the logical line starts on.
type Line struct {
	Number  int
	Raw     string // logical line as written, without inline comment
	Comment string // inline or full-line comment, without "#"
	Kind    LineKind
	Req     *Requirement // set when Kind == KindRequirement
	RefPath string       // set when Kind == KindDirective or KindEditable
	Err     error        // parse failure, Kind == KindInvalid
}

// File is a parsed manifest.
type File struct {
	Path  string
	Lines []Line
}

// ParseFile reads and parses the manifest at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path) // #nosec G304 -- manifest paths are operator-provided
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return nil, err
	}
	parsed.Path = path
	return parsed, nil
}

// Parse parses a manifest from r. Per-line failures land in Line.Err rather
// than aborting the parse.
func Parse(r io.Reader) (*File, error) {
	file := &File{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0
	pending := ""
	pendingStart := 0

	flush := func(text string, start int) {
		file.Lines = append(file.Lines, classify(text, start))
	}

	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		if pending == "" {
			pendingStart = lineno
		}

		// Trailing backslash joins the next physical line.
		trimmed := strings.TrimRight(text, " \t")
		if strings.HasSuffix(trimmed, "\\") && !strings.HasSuffix(trimmed, "\\\\") {
			pending += strings.TrimSuffix(trimmed, "\\")
			continue
		}

		flush(pending+text, pendingStart)
		pending = ""
	}
	if pending != "" {
		flush(pending, pendingStart)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return file, nil
}

// classify turns one logical line into a Line.
func classify(text string, number int) Line {
	line := Line{Number: number, Raw: text}

	// Split off comments. An inline "#" must be preceded by whitespace.
	content := text
	if idx := commentIndex(text); idx >= 0 {
		line.Comment = strings.TrimSpace(strings.TrimPrefix(text[idx:], "#"))
		content = text[:idx]
	}
	content = strings.TrimSpace(content)
	line.Raw = content

	switch {
	case content == "" && line.Comment == "":
		line.Kind = KindBlank
		return line
	case content == "":
		line.Kind = KindComment
		return line
	}

	if strings.HasPrefix(content, "-") {
		return classifyOption(line, content)
	}

	if isURLRequirement(content) {
		line.Kind = KindURL
		return line
	}

	req, err := ParseRequirement(content)
	if err != nil {
		line.Kind = KindInvalid
		line.Err = err
		return line
	}
	line.Kind = KindRequirement
	line.Req = req
	return line
}

func classifyOption(line Line, content string) Line {
	fields := strings.Fields(content)
	opt := fields[0]

	// Normalize "--requirement=file" into flag + argument.
	arg := ""
	if idx := strings.Index(opt, "="); idx >= 0 {
		arg = opt[idx+1:]
		opt = opt[:idx]
	} else if len(fields) > 1 {
		arg = fields[1]
	}

	switch opt {
	case "-r", "--requirement", "-c", "--constraint":
		if arg == "" {
			line.Kind = KindInvalid
			line.Err = fmt.Errorf("%s requires a file argument", opt)
			return line
		}
		line.Kind = KindDirective
		line.RefPath = arg
	case "-e", "--editable":
		if arg == "" {
			line.Kind = KindInvalid
			line.Err = fmt.Errorf("%s requires a target argument", opt)
			return line
		}
		line.Kind = KindEditable
		line.RefPath = arg
	case "-i", "--index-url", "--extra-index-url", "--no-index", "--find-links", "-f",
		"--no-binary", "--only-binary", "--prefer-binary", "--require-hashes",
		"--pre", "--trusted-host", "--use-feature":
		line.Kind = KindOption
	default:
		line.Kind = KindInvalid
		line.Err = fmt.Errorf("unknown option %q", opt)
	}
	return line
}

// commentIndex returns the byte offset of a comment marker, or -1. A "#"
// inside a requirement must be separated by whitespace to count (URL
// fragments like "#egg=" stay part of the requirement).
func commentIndex(text string) int {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' {
			continue
		}
		if i == 0 {
			return 0
		}
		if text[i-1] == ' ' || text[i-1] == '\t' {
			return i
		}
	}
	return -1
}

// isURLRequirement reports whether the line is a direct URL or VCS
// requirement ("git+https://...", "https://...", "name @ https://...").
func isURLRequirement(content string) bool {
	lower := strings.ToLower(content)
	for _, prefix := range []string{
		"http://", "https://", "file://", "ftp://",
		"git+", "hg+", "svn+", "bzr+",
	} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	// PEP 508 direct reference: "name @ url"
	if idx := strings.Index(content, "@"); idx > 0 {
		before := strings.TrimSpace(content[:idx])
		after := strings.TrimSpace(content[idx+1:])
		if nameRe.MatchString(before) && strings.Contains(after, "://") {
			return true
		}
	}
	return false
}

// Requirements returns the successfully parsed requirements in file order.
func (f *File) Requirements() []*Requirement {
	var out []*Requirement
	for _, l := range f.Lines {
		if l.Kind == KindRequirement {
			out = append(out, l.Req)
		}
	}
	return out
}
