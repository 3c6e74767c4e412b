// SPDX-License-Identifier: MIT

package logconf

import (
	"fmt"
	"strings"
)

// Logger is one [logger_X] section.
type Logger struct {
	Key       string // key as listed in [loggers]
	Level     string
	Handlers  []string
	Qualname  string
	Propagate string // raw value; "" when absent
	Line      int    // section header line
	LevelLine int
	HandlLine int
	PropLine  int
}

// Handler is one [handler_X] section.
type Handler struct {
	Key       string
	Class     string
	Level     string
	Formatter string
	Args      string // raw args tuple text
	Line      int
	LevelLine int
	FmtLine   int
	ArgsLine  int
}

// Formatter is one [formatter_X] section.
type Formatter struct {
	Key     string
	Format  string
	DateFmt string
	Line    int
	FmtLine int
}

// Config is the structured fileConfig model built from an INI document.
// Index lists and section maps are kept separately so cross-reference
// checks can see both sides.
type Config struct {
	LoggerKeys    []string // [loggers] keys=, nil when the entry is missing
	HandlerKeys   []string
	FormatterKeys []string

	HasLoggers    bool // the [loggers] section exists
	HasHandlers   bool
	HasFormatters bool

	LoggersLine    int
	HandlersLine   int
	FormattersLine int

	Loggers    map[string]*Logger // every [logger_X] section, keyed by X
	Handlers   map[string]*Handler
	Formatters map[string]*Formatter
}

// FromINI builds the fileConfig model. Structural shape only; rule
// evaluation lives in internal/lint.
func FromINI(ini *INI) *Config {
	cfg := &Config{
		Loggers:    make(map[string]*Logger),
		Handlers:   make(map[string]*Handler),
		Formatters: make(map[string]*Formatter),
	}

	if s := ini.Section("loggers"); s != nil {
		cfg.HasLoggers = true
		cfg.LoggersLine = s.Line
		cfg.LoggerKeys = keysList(s)
	}
	if s := ini.Section("handlers"); s != nil {
		cfg.HasHandlers = true
		cfg.HandlersLine = s.Line
		cfg.HandlerKeys = keysList(s)
	}
	if s := ini.Section("formatters"); s != nil {
		cfg.HasFormatters = true
		cfg.FormattersLine = s.Line
		cfg.FormatterKeys = keysList(s)
	}

	for _, s := range ini.Sections {
		switch {
		case strings.HasPrefix(s.Name, "logger_"):
			cfg.Loggers[strings.TrimPrefix(s.Name, "logger_")] = loggerFromSection(s)
		case strings.HasPrefix(s.Name, "handler_"):
			cfg.Handlers[strings.TrimPrefix(s.Name, "handler_")] = handlerFromSection(s)
		case strings.HasPrefix(s.Name, "formatter_"):
			cfg.Formatters[strings.TrimPrefix(s.Name, "formatter_")] = formatterFromSection(s)
		}
	}

	return cfg
}

// keysList returns the comma-separated "keys" entry, or nil when absent.
func keysList(s *Section) []string {
	kv, ok := s.Get("keys")
	if !ok {
		return nil
	}
	var out []string
	for _, k := range strings.Split(kv.Value, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func loggerFromSection(s *Section) *Logger {
	l := &Logger{
		Key:  strings.TrimPrefix(s.Name, "logger_"),
		Line: s.Line,
	}
	if kv, ok := s.Get("level"); ok {
		l.Level = kv.Value
		l.LevelLine = kv.Line
	}
	if kv, ok := s.Get("handlers"); ok {
		l.HandlLine = kv.Line
		for _, h := range strings.Split(kv.Value, ",") {
			h = strings.TrimSpace(h)
			if h != "" {
				l.Handlers = append(l.Handlers, h)
			}
		}
	}
	if kv, ok := s.Get("qualname"); ok {
		l.Qualname = kv.Value
	}
	if kv, ok := s.Get("propagate"); ok {
		l.Propagate = kv.Value
		l.PropLine = kv.Line
	}
	return l
}

func handlerFromSection(s *Section) *Handler {
	h := &Handler{
		Key:  strings.TrimPrefix(s.Name, "handler_"),
		Line: s.Line,
	}
	if kv, ok := s.Get("class"); ok {
		h.Class = kv.Value
	}
	if kv, ok := s.Get("level"); ok {
		h.Level = kv.Value
		h.LevelLine = kv.Line
	}
	if kv, ok := s.Get("formatter"); ok {
		h.Formatter = kv.Value
		h.FmtLine = kv.Line
	}
	if kv, ok := s.Get("args"); ok {
		h.Args = kv.Value
		h.ArgsLine = kv.Line
	}
	return h
}

func formatterFromSection(s *Section) *Formatter {
	f := &Formatter{
		Key:  strings.TrimPrefix(s.Name, "formatter_"),
		Line: s.Line,
	}
	if kv, ok := s.Get("format"); ok {
		f.Format = kv.Value
		f.FmtLine = kv.Line
	}
	if kv, ok := s.Get("datefmt"); ok {
		f.DateFmt = kv.Value
	}
	return f
}

// knownLevels are the severity names accepted in logger and handler
// sections.
var knownLevels = map[string]struct{}{
	"NOTSET": {}, "DEBUG": {}, "INFO": {}, "WARNING": {}, "WARN": {},
	"ERROR": {}, "CRITICAL": {}, "FATAL": {},
}

// ValidLevel reports whether name is a known severity level.
func ValidLevel(name string) bool {
	_, ok := knownLevels[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// formatFields are the record attributes a %(field)s token may reference.
var formatFields = map[string]struct{}{
	"asctime": {}, "created": {}, "filename": {}, "funcName": {},
	"levelname": {}, "levelno": {}, "lineno": {}, "message": {},
	"module": {}, "msecs": {}, "name": {}, "pathname": {}, "process": {},
	"processName": {}, "relativeCreated": {}, "thread": {}, "threadName": {},
}

// CheckFormat validates a %(field)s-style format string. It returns the
// first unknown field or syntax problem.
func CheckFormat(format string) error {
	i := 0
	for i < len(format) {
		if format[i] != '%' {
			i++
			continue
		}
		if i+1 >= len(format) {
			return fmt.Errorf("dangling %% at end of format string")
		}
		next := format[i+1]
		if next == '%' {
			i += 2
			continue
		}
		if next != '(' {
			// %s-style tokens without a field name are allowed by Python
			// but meaningless in a logging format; flag them.
			return fmt.Errorf("%%%c conversion without %%(field)s name", next)
		}
		end := strings.IndexByte(format[i+2:], ')')
		if end < 0 {
			return fmt.Errorf("unterminated %%(...) token")
		}
		field := format[i+2 : i+2+end]
		if _, ok := formatFields[field]; !ok {
			return fmt.Errorf("unknown format field %q", field)
		}
		if format[i+2+end+1:] == "" {
			return fmt.Errorf("%%(%s) missing conversion type", field)
		}
		i = i + 2 + end + 2 // past ")" and the conversion character
	}
	return nil
}

// ParseArgs splits a handler args tuple like ('app.log', 'a') into its
// top-level elements. The surrounding parentheses are required.
func ParseArgs(args string) ([]string, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return nil, nil
	}
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("args must be a parenthesized tuple, got %q", args)
	}
	inner := s[1 : len(s)-1]

	var elems []string
	var cur strings.Builder
	depth := 0
	var quote byte

	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			cur.WriteByte(c)
		case c == '(' || c == '[':
			depth++
			cur.WriteByte(c)
		case c == ')' || c == ']':
			depth--
			cur.WriteByte(c)
		case c == ',' && depth == 0:
			elems = append(elems, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string in args %q", args)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced brackets in args %q", args)
	}
	if last := strings.TrimSpace(cur.String()); last != "" {
		elems = append(elems, last)
	}
	return elems, nil
}

// StringArg unquotes a tuple element if it is a Python string literal.
func StringArg(elem string) (string, bool) {
	if len(elem) >= 2 {
		if (elem[0] == '\'' && elem[len(elem)-1] == '\'') ||
			(elem[0] == '"' && elem[len(elem)-1] == '"') {
			return elem[1 : len(elem)-1], true
		}
	}
	return "", false
}
