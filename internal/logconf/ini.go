// SPDX-License-Identifier: MIT

// Package logconf implements the INI logging-configuration dialect used by
// Python's logging.config.fileConfig: [loggers]/[handlers]/[formatters]
// index sections plus one section per declared logger, handler and
// formatter.
package logconf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// KV is one key/value pair with its source line.
type KV struct {
	Key   string
	Value string
	Line  int
}

// Section is an ordered list of key/value pairs.
type Section struct {
	Name string
	Line int
	Keys []KV
}

// INI is an ordered INI document.
type INI struct {
	Sections []*Section

	byName map[string]*Section
}

// SyntaxError is an INI-level parse failure with its source line.
type SyntaxError struct {
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ParseINIFile reads and parses the INI file at path.
func ParseINIFile(path string) (*INI, error) {
	f, err := os.Open(path) // #nosec G304 -- config paths are operator-provided
	if err != nil {
		return nil, fmt.Errorf("open logging config: %w", err)
	}
	defer f.Close()
	return ParseINI(f)
}

// ParseINI parses an INI document. Keys are lowercased (configparser
// semantics); indented lines continue the previous value.
func ParseINI(r io.Reader) (*INI, error) {
	ini := &INI{byName: make(map[string]*Section)}

	var current *Section
	var lastKV *KV

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0

	for scanner.Scan() {
		lineno++
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)

		// Full-line comments and blanks.
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			lastKV = nil
			continue
		}

		// Continuation: indented line under an existing key.
		if (raw[0] == ' ' || raw[0] == '\t') && lastKV != nil {
			lastKV.Value += "\n" + trimmed
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			if !strings.HasSuffix(trimmed, "]") {
				return nil, &SyntaxError{Line: lineno, Message: fmt.Sprintf("unterminated section header %q", trimmed)}
			}
			name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if name == "" {
				return nil, &SyntaxError{Line: lineno, Message: "empty section name"}
			}
			current = &Section{Name: name, Line: lineno}
			ini.Sections = append(ini.Sections, current)
			if _, dup := ini.byName[name]; dup {
				return nil, &SyntaxError{Line: lineno, Message: fmt.Sprintf("duplicate section %q", name)}
			}
			ini.byName[name] = current
			lastKV = nil
			continue
		}

		if current == nil {
			return nil, &SyntaxError{Line: lineno, Message: fmt.Sprintf("entry %q outside any section", trimmed)}
		}

		sep := strings.IndexAny(trimmed, "=:")
		if sep < 0 {
			return nil, &SyntaxError{Line: lineno, Message: fmt.Sprintf("entry %q is not key=value", trimmed)}
		}
		key := strings.ToLower(strings.TrimSpace(trimmed[:sep]))
		if key == "" {
			return nil, &SyntaxError{Line: lineno, Message: "empty key"}
		}
		current.Keys = append(current.Keys, KV{
			Key:   key,
			Value: strings.TrimSpace(trimmed[sep+1:]),
			Line:  lineno,
		})
		lastKV = &current.Keys[len(current.Keys)-1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read logging config: %w", err)
	}

	return ini, nil
}

// Section returns the named section, or nil.
func (i *INI) Section(name string) *Section {
	return i.byName[name]
}

// Get returns the value for key and whether it exists.
func (s *Section) Get(key string) (KV, bool) {
	for _, kv := range s.Keys {
		if kv.Key == key {
			return kv, true
		}
	}
	return KV{}, false
}
