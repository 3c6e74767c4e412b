// SPDX-License-Identifier: MIT

// Package requirements implements the pip requirements-manifest dialect:
// PEP 440 versions and specifiers, PEP 508 requirement lines and PEP 503
// name canonicalization, plus a lossless file parser.
package requirements

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a parsed PEP 440 version (subset: epoch, release, one
// pre-release qualifier, post, dev, local label).
type Version struct {
	Epoch   int
	Release []int
	PreL    string // "a", "b", "rc" or "" when absent
	PreN    int
	Post    int // -1 when absent
	Dev     int // -1 when absent
	Local   string

	original string
}

var versionRe = regexp.MustCompile(
	`^(?:(\d+)!)?` + // epoch
		`(\d+(?:\.\d+)*)` + // release
		`(?:[._-]?(a|alpha|b|beta|c|pre|preview|rc)[._-]?(\d*))?` + // pre
		`(?:(?:[._-]?(?:post|rev|r)[._-]?|-)(\d+))?` + // post
		`(?:[._-]?(dev)[._-]?(\d*))?` + // dev
		`(?:\+([a-z0-9]+(?:[._-][a-z0-9]+)*))?$`, // local
)

// ParseVersion parses a version string. Leading "v" and surrounding
// whitespace are tolerated; the original spelling is kept for String().
func ParseVersion(s string) (Version, error) {
	orig := strings.TrimSpace(s)
	norm := strings.ToLower(orig)
	norm = strings.TrimPrefix(norm, "v")

	m := versionRe.FindStringSubmatch(norm)
	if m == nil {
		return Version{}, fmt.Errorf("invalid version %q", orig)
	}

	v := Version{Post: -1, Dev: -1, original: orig}

	if m[1] != "" {
		v.Epoch, _ = strconv.Atoi(m[1])
	}
	for _, part := range strings.Split(m[2], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid release segment %q in %q", part, orig)
		}
		v.Release = append(v.Release, n)
	}
	if m[3] != "" {
		v.PreL = normalizePre(m[3])
		if m[4] != "" {
			v.PreN, _ = strconv.Atoi(m[4])
		}
	}
	if m[5] != "" {
		v.Post, _ = strconv.Atoi(m[5])
	}
	if m[6] != "" {
		v.Dev = 0 // "1.0.dev" with no number counts as dev0
		if m[7] != "" {
			v.Dev, _ = strconv.Atoi(m[7])
		}
	}
	if m[8] != "" {
		v.Local = m[8]
	}

	return v, nil
}

func normalizePre(label string) string {
	switch label {
	case "alpha":
		return "a"
	case "beta":
		return "b"
	case "c", "pre", "preview":
		return "rc"
	default:
		return label
	}
}

// String returns the original spelling of the version.
func (v Version) String() string {
	return v.original
}

// IsPrerelease reports whether the version carries a pre-release or dev
// qualifier.
func (v Version) IsPrerelease() bool {
	return v.PreL != "" || v.Dev >= 0
}

// Compare returns -1, 0 or 1 ordering a against b per PEP 440.
func Compare(a, b Version) int {
	if a.Epoch != b.Epoch {
		return cmpInt(a.Epoch, b.Epoch)
	}
	if c := cmpRelease(a.Release, b.Release); c != 0 {
		return c
	}
	if c := cmpInt(a.preRank(), b.preRank()); c != 0 {
		return c
	}
	if a.PreL != "" && a.PreL == b.PreL {
		if c := cmpInt(a.PreN, b.PreN); c != 0 {
			return c
		}
	}
	// X.post > X, absent post sorts first
	if c := cmpInt(a.Post, b.Post); c != 0 {
		return c
	}
	// X.dev < X, absent dev sorts last
	ad, bd := a.Dev, b.Dev
	if ad < 0 {
		ad = int(^uint(0) >> 1)
	}
	if bd < 0 {
		bd = int(^uint(0) >> 1)
	}
	if c := cmpInt(ad, bd); c != 0 {
		return c
	}
	return cmpLocal(a.Local, b.Local)
}

// preRank orders the pre-release phase: dev-only < a < b < rc < final.
func (v Version) preRank() int {
	switch v.PreL {
	case "a":
		return 1
	case "b":
		return 2
	case "rc":
		return 3
	}
	if v.Post < 0 && v.Dev >= 0 {
		return 0 // bare dev release sorts before any pre-release
	}
	return 4 // final or post
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpRelease compares release tuples with zero padding ("1.0" == "1.0.0").
func cmpRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if c := cmpInt(av, bv); c != 0 {
			return c
		}
	}
	return 0
}

// cmpLocal compares local version labels segment-wise: numeric segments
// compare numerically and sort after alphanumeric ones, per PEP 440.
func cmpLocal(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}
	as := strings.FieldsFunc(a, isLocalSep)
	bs := strings.FieldsFunc(b, isLocalSep)
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aErr := strconv.Atoi(as[i])
		bn, bErr := strconv.Atoi(bs[i])
		switch {
		case aErr == nil && bErr == nil:
			if c := cmpInt(an, bn); c != 0 {
				return c
			}
		case aErr == nil:
			return 1 // numeric > alphanumeric
		case bErr == nil:
			return -1
		default:
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
	}
	return cmpInt(len(as), len(bs))
}

func isLocalSep(r rune) bool {
	return r == '.' || r == '_' || r == '-'
}
