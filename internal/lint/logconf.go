// SPDX-License-Identifier: MIT

package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ManuGH/conflint/internal/logconf"
)

// LintLoggingConfig lints one INI logging configuration.
func LintLoggingConfig(path string, opts Options) FileReport {
	report := FileReport{File: path}

	ini, err := logconf.ParseINIFile(path)
	if err != nil {
		line := 0
		var syntaxErr *logconf.SyntaxError
		if errors.As(err, &syntaxErr) {
			line = syntaxErr.Line
		}
		report.Findings = []Finding{{
			Rule:     "LOG001",
			Severity: SeverityError,
			File:     path,
			Line:     line,
			Message:  err.Error(),
		}}
		return report
	}

	report.Findings = lintLoggingConfig(path, logconf.FromINI(ini))
	sortFindings(report.Findings)
	return report
}

func lintLoggingConfig(path string, cfg *logconf.Config) []Finding {
	var findings []Finding
	add := func(rule string, sev Severity, line int, msg, value string) {
		findings = append(findings, Finding{
			Rule:     rule,
			Severity: sev,
			File:     path,
			Line:     line,
			Message:  msg,
			Value:    value,
		})
	}

	// Index sections and their keys entries.
	type index struct {
		name     string
		present  bool
		line     int
		keys     []string
		sections []string // declared section suffixes, sorted
		secLine  func(string) int
	}

	indexes := []index{
		{
			name: "loggers", present: cfg.HasLoggers, line: cfg.LoggersLine,
			keys: cfg.LoggerKeys, sections: sortedLoggerKeys(cfg),
			secLine: func(k string) int { return cfg.Loggers[k].Line },
		},
		{
			name: "handlers", present: cfg.HasHandlers, line: cfg.HandlersLine,
			keys: cfg.HandlerKeys, sections: sortedHandlerKeys(cfg),
			secLine: func(k string) int { return cfg.Handlers[k].Line },
		},
		{
			name: "formatters", present: cfg.HasFormatters, line: cfg.FormattersLine,
			keys: cfg.FormatterKeys, sections: sortedFormatterKeys(cfg),
			secLine: func(k string) int { return cfg.Formatters[k].Line },
		},
	}

	for _, idx := range indexes {
		if !idx.present {
			add("LOG002", SeverityError, 0,
				fmt.Sprintf("missing [%s] section", idx.name), "")
			continue
		}
		if idx.keys == nil {
			add("LOG002", SeverityError, idx.line,
				fmt.Sprintf("[%s] section has no keys entry", idx.name), "")
			continue
		}

		singular := strings.TrimSuffix(idx.name, "s")
		listed := map[string]struct{}{}
		for _, key := range idx.keys {
			listed[key] = struct{}{}
			if !contains(idx.sections, key) {
				add("LOG003", SeverityError, idx.line,
					fmt.Sprintf("%s %q is listed in [%s] but section [%s_%s] is missing",
						singular, key, idx.name, singular, key),
					key)
			}
		}
		for _, key := range idx.sections {
			if _, ok := listed[key]; !ok {
				add("LOG003", SeverityWarning, idx.secLine(key),
					fmt.Sprintf("section [%s_%s] exists but %q is not listed in [%s]",
						singular, key, key, idx.name),
					key)
			}
		}
	}

	if cfg.HasLoggers && cfg.LoggerKeys != nil && !contains(cfg.LoggerKeys, "root") {
		add("LOG006", SeverityError, cfg.LoggersLine, "no root logger declared", "")
	}

	handlerSet := toSet(cfg.HandlerKeys)
	formatterSet := toSet(cfg.FormatterKeys)

	for _, key := range sortedLoggerKeys(cfg) {
		logger := cfg.Loggers[key]

		if logger.Level != "" && !logconf.ValidLevel(logger.Level) {
			add("LOG005", SeverityError, logger.LevelLine,
				fmt.Sprintf("unknown level %q for logger %q", logger.Level, key),
				logger.Level)
		}
		for _, h := range logger.Handlers {
			if _, ok := handlerSet[h]; !ok {
				add("LOG004", SeverityError, logger.HandlLine,
					fmt.Sprintf("logger %q references undeclared handler %q", key, h),
					h)
			}
		}
		if key != "root" && logger.Qualname == "" {
			add("LOG007", SeverityWarning, logger.Line,
				fmt.Sprintf("logger %q has no qualname", key), "")
		}
		if logger.Propagate != "" && logger.Propagate != "0" && logger.Propagate != "1" {
			add("LOG010", SeverityError, logger.PropLine,
				fmt.Sprintf("propagate must be 0 or 1, got %q", logger.Propagate),
				logger.Propagate)
		}
	}

	for _, key := range sortedHandlerKeys(cfg) {
		handler := cfg.Handlers[key]

		if strings.TrimSpace(handler.Class) == "" {
			add("LOG009", SeverityError, handler.Line,
				fmt.Sprintf("handler %q has no class", key), "")
		}
		if handler.Level != "" && !logconf.ValidLevel(handler.Level) {
			add("LOG005", SeverityError, handler.LevelLine,
				fmt.Sprintf("unknown level %q for handler %q", handler.Level, key),
				handler.Level)
		}
		if handler.Formatter != "" {
			if _, ok := formatterSet[handler.Formatter]; !ok {
				add("LOG004", SeverityError, handler.FmtLine,
					fmt.Sprintf("handler %q references undeclared formatter %q", key, handler.Formatter),
					handler.Formatter)
			}
		}

		args, err := logconf.ParseArgs(handler.Args)
		if err != nil {
			add("LOG009", SeverityError, handler.ArgsLine, err.Error(), handler.Args)
			continue
		}
		if strings.Contains(handler.Class, "FileHandler") && len(args) >= 2 {
			if mode, ok := logconf.StringArg(args[1]); ok && !strings.HasPrefix(mode, "a") {
				add("LOG009", SeverityWarning, handler.ArgsLine,
					fmt.Sprintf("handler %q opens its file with mode %q, not append", key, mode),
					args[1])
			}
		}
	}

	for _, key := range sortedFormatterKeys(cfg) {
		formatter := cfg.Formatters[key]
		if formatter.Format == "" {
			continue
		}
		if err := logconf.CheckFormat(formatter.Format); err != nil {
			add("LOG008", SeverityError, formatter.FmtLine,
				fmt.Sprintf("formatter %q: %v", key, err), formatter.Format)
		}
	}

	return findings
}

func sortedLoggerKeys(cfg *logconf.Config) []string {
	keys := make([]string, 0, len(cfg.Loggers))
	for k := range cfg.Loggers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedHandlerKeys(cfg *logconf.Config) []string {
	keys := make([]string, 0, len(cfg.Handlers))
	for k := range cfg.Handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFormatterKeys(cfg *logconf.Config) []string {
	keys := make([]string, 0, len(cfg.Formatters))
	for k := range cfg.Formatters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, item := range list {
		set[item] = struct{}{}
	}
	return set
}
