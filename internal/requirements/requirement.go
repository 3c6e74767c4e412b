// SPDX-License-Identifier: MIT

package requirements

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Requirement is a parsed requirement specifier line.
type Requirement struct {
	Name       string // as written
	Canonical  string // PEP 503 canonical form of Name
	Extras     []string
	Specifiers SpecifierSet
	Marker     string // environment marker, without the leading ";"
}

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	extraRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	dashRe  = regexp.MustCompile(`[-_.]+`)
)

// CanonicalName lowercases the name and collapses runs of "-", "_" and "."
// into a single dash (PEP 503).
func CanonicalName(name string) string {
	return strings.ToLower(dashRe.ReplaceAllString(name, "-"))
}

// ParseRequirement parses a single requirement specifier:
//
//	name[extra1,extra2]>=1.0,<2.0 ; python_version < "3.8"
//
// Inline comments must already be stripped.
func ParseRequirement(s string) (*Requirement, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty requirement")
	}

	req := &Requirement{}

	// Split off the environment marker first.
	if idx := strings.Index(s, ";"); idx >= 0 {
		marker := strings.TrimSpace(s[idx+1:])
		if marker == "" {
			return nil, fmt.Errorf("empty environment marker")
		}
		if err := checkMarker(marker); err != nil {
			return nil, fmt.Errorf("invalid environment marker: %w", err)
		}
		req.Marker = marker
		s = strings.TrimSpace(s[:idx])
	}

	// Name runs until the first extras bracket or specifier operator.
	end := len(s)
	for i, r := range s {
		if r == '[' || r == '<' || r == '>' || r == '=' || r == '!' || r == '~' || r == ' ' || r == '\t' {
			end = i
			break
		}
	}
	name := s[:end]
	if !nameRe.MatchString(name) {
		return nil, fmt.Errorf("invalid project name %q", name)
	}
	req.Name = name
	req.Canonical = CanonicalName(name)
	rest := strings.TrimSpace(s[end:])

	// Extras.
	if strings.HasPrefix(rest, "[") {
		closeIdx := strings.Index(rest, "]")
		if closeIdx < 0 {
			return nil, fmt.Errorf("unterminated extras in %q", s)
		}
		for _, extra := range strings.Split(rest[1:closeIdx], ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				return nil, fmt.Errorf("empty extra in %q", s)
			}
			if !extraRe.MatchString(extra) {
				return nil, fmt.Errorf("invalid extra %q", extra)
			}
			req.Extras = append(req.Extras, extra)
		}
		rest = strings.TrimSpace(rest[closeIdx+1:])
	}

	// Version specifiers, optionally parenthesized (legacy form).
	if strings.HasPrefix(rest, "(") {
		if !strings.HasSuffix(rest, ")") {
			return nil, fmt.Errorf("unterminated specifier parentheses in %q", s)
		}
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}
	if rest != "" {
		set, err := ParseSpecifierSet(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpecifier, err)
		}
		req.Specifiers = set
	}

	return req, nil
}

// String renders the requirement in canonical form.
func (r *Requirement) String() string {
	var b strings.Builder
	b.WriteString(r.Canonical)
	if len(r.Extras) > 0 {
		extras := make([]string, len(r.Extras))
		for i, e := range r.Extras {
			extras[i] = strings.ToLower(e)
		}
		sort.Strings(extras)
		b.WriteString("[")
		b.WriteString(strings.Join(extras, ","))
		b.WriteString("]")
	}
	if len(r.Specifiers) > 0 {
		b.WriteString(r.Specifiers.String())
	}
	if r.Marker != "" {
		b.WriteString(" ; ")
		b.WriteString(r.Marker)
	}
	return b.String()
}

// marker tokens: identifiers, quoted strings, comparison operators and the
// keywords "and", "or", "in", "not". Markers are validated for shape only,
// never evaluated.
var markerTokenRe = regexp.MustCompile(
	`^(\s+|\(|\)|===|==|!=|<=|>=|~=|<|>|'[^']*'|"[^"]*"|[A-Za-z_][A-Za-z0-9_.]*)`,
)

func checkMarker(marker string) error {
	depth := 0
	rest := marker
	for rest != "" {
		m := markerTokenRe.FindString(rest)
		if m == "" {
			return fmt.Errorf("unexpected token at %q", rest)
		}
		switch m {
		case "(":
			depth++
		case ")":
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced parentheses")
			}
		}
		rest = rest[len(m):]
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced parentheses")
	}
	return nil
}
