// SPDX-License-Identifier: MIT

package requirements

import (
	"fmt"
	"sort"
	"strings"
)

// Specifier is a single version clause such as ">=1.2" or "==1.4.*".
type Specifier struct {
	Op       string // "==", "!=", ">=", "<=", ">", "<", "~=", "==="
	Version  string // version text without the operator (may end in ".*")
	Wildcard bool   // Version ends in ".*" (only valid for == and !=)

	parsed *Version // nil for wildcard and "===" clauses
}

// SpecifierSet is a comma-separated conjunction of specifiers.
type SpecifierSet []Specifier

// operators ordered longest-first so that "==" is not read as "=" + "=".
var specOps = []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"}

// ParseSpecifier parses a single clause.
func ParseSpecifier(s string) (Specifier, error) {
	s = strings.TrimSpace(s)
	var op string
	for _, candidate := range specOps {
		if strings.HasPrefix(s, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return Specifier{}, fmt.Errorf("missing comparison operator in %q", s)
	}

	ver := strings.TrimSpace(s[len(op):])
	if ver == "" {
		return Specifier{}, fmt.Errorf("missing version in %q", s)
	}

	spec := Specifier{Op: op, Version: ver}

	if strings.HasSuffix(ver, ".*") {
		if op != "==" && op != "!=" {
			return Specifier{}, fmt.Errorf("wildcard version %q requires == or !=, got %s", ver, op)
		}
		spec.Wildcard = true
		// The prefix itself must be a valid version.
		if _, err := ParseVersion(strings.TrimSuffix(ver, ".*")); err != nil {
			return Specifier{}, err
		}
		return spec, nil
	}

	if op == "===" {
		// Arbitrary equality compares raw strings, no parse needed.
		return spec, nil
	}

	v, err := ParseVersion(ver)
	if err != nil {
		return Specifier{}, err
	}
	if op == "~=" && len(v.Release) < 2 {
		return Specifier{}, fmt.Errorf("~= requires at least two release segments, got %q", ver)
	}
	spec.parsed = &v
	return spec, nil
}

// ParseSpecifierSet parses a comma-separated conjunction.
func ParseSpecifierSet(s string) (SpecifierSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var set SpecifierSet
	for _, part := range strings.Split(s, ",") {
		spec, err := ParseSpecifier(part)
		if err != nil {
			return nil, err
		}
		set = append(set, spec)
	}
	return set, nil
}

// Match reports whether v satisfies the clause.
func (s Specifier) Match(v Version) bool {
	switch {
	case s.Op == "===":
		return strings.EqualFold(strings.TrimSpace(s.Version), strings.TrimSpace(v.String()))
	case s.Wildcard:
		prefix, _ := ParseVersion(strings.TrimSuffix(s.Version, ".*"))
		matches := releasePrefixMatch(v, prefix)
		if s.Op == "!=" {
			return !matches
		}
		return matches
	case s.Op == "~=":
		if Compare(v, *s.parsed) < 0 {
			return false
		}
		// Compatible release: same prefix with the last segment dropped.
		upper := *s.parsed
		upper.Release = upper.Release[:len(upper.Release)-1]
		return releasePrefixMatch(v, upper)
	}

	c := Compare(v, *s.parsed)
	switch s.Op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case "<":
		return c < 0
	}
	return false
}

// releasePrefixMatch reports whether v's epoch and leading release segments
// equal those of prefix.
func releasePrefixMatch(v, prefix Version) bool {
	if v.Epoch != prefix.Epoch {
		return false
	}
	for i, seg := range prefix.Release {
		got := 0
		if i < len(v.Release) {
			got = v.Release[i]
		}
		if got != seg {
			return false
		}
	}
	return true
}

// Match reports whether v satisfies every clause in the set.
func (set SpecifierSet) Match(v Version) bool {
	for _, s := range set {
		if !s.Match(v) {
			return false
		}
	}
	return true
}

// Pinned reports whether the set pins an exact version (== without wildcard,
// or ===).
func (set SpecifierSet) Pinned() bool {
	for _, s := range set {
		if s.Op == "===" || (s.Op == "==" && !s.Wildcard) {
			return true
		}
	}
	return false
}

// Satisfiable performs a conservative contradiction check: it reports false
// only when the set provably matches no version. Wildcards and != clauses
// are ignored, so true is not a completeness guarantee.
func (set SpecifierSet) Satisfiable() bool {
	var pins []Version
	var lower *bound
	var upper *bound

	for _, s := range set {
		if s.parsed == nil {
			continue
		}
		v := *s.parsed
		switch s.Op {
		case "==":
			pins = append(pins, v)
		case ">", ">=":
			b := &bound{v: v, inclusive: s.Op == ">="}
			if lower == nil || b.tighterLower(*lower) {
				lower = b
			}
		case "<", "<=":
			b := &bound{v: v, inclusive: s.Op == "<="}
			if upper == nil || b.tighterUpper(*upper) {
				upper = b
			}
		case "~=":
			b := &bound{v: v, inclusive: true}
			if lower == nil || b.tighterLower(*lower) {
				lower = b
			}
		}
	}

	for i := 1; i < len(pins); i++ {
		if Compare(pins[0], pins[i]) != 0 {
			return false
		}
	}
	if len(pins) > 0 {
		pin := pins[0]
		if lower != nil && !lowerAdmits(*lower, pin) {
			return false
		}
		if upper != nil && !upperAdmits(*upper, pin) {
			return false
		}
		return true
	}

	if lower != nil && upper != nil {
		c := Compare(lower.v, upper.v)
		if c > 0 {
			return false
		}
		if c == 0 && (!lower.inclusive || !upper.inclusive) {
			return false
		}
	}
	return true
}

type bound struct {
	v         Version
	inclusive bool
}

func (b bound) tighterLower(other bound) bool {
	c := Compare(b.v, other.v)
	return c > 0 || (c == 0 && !b.inclusive && other.inclusive)
}

func (b bound) tighterUpper(other bound) bool {
	c := Compare(b.v, other.v)
	return c < 0 || (c == 0 && !b.inclusive && other.inclusive)
}

func lowerAdmits(b bound, v Version) bool {
	c := Compare(v, b.v)
	if b.inclusive {
		return c >= 0
	}
	return c > 0
}

func upperAdmits(b bound, v Version) bool {
	c := Compare(v, b.v)
	if b.inclusive {
		return c <= 0
	}
	return c < 0
}

// String renders the set in canonical form: clauses sorted by version, then
// operator, joined without spaces.
func (set SpecifierSet) String() string {
	if len(set) == 0 {
		return ""
	}
	sorted := make(SpecifierSet, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.parsed != nil && b.parsed != nil {
			if c := Compare(*a.parsed, *b.parsed); c != 0 {
				return c < 0
			}
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Op < b.Op
	})
	parts := make([]string, len(sorted))
	for i, s := range sorted {
		parts[i] = s.Op + s.Version
	}
	return strings.Join(parts, ",")
}
