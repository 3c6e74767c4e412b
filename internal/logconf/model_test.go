// SPDX-License-Identifier: MIT
package logconf

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleConfig = `[loggers]
keys = root, robottelo

[handlers]
keys = console, logfile

[formatters]
keys = brief

[logger_root]
level = INFO
handlers = console, logfile

[logger_robottelo]
level = DEBUG
handlers = logfile
qualname = robottelo
propagate = 0

[handler_console]
class = StreamHandler
level = INFO
formatter = brief
args = (sys.stdout,)

[handler_logfile]
class = FileHandler
formatter = brief
args = ('robottelo.log', 'a')

[formatter_brief]
format = %(asctime)s - %(name)s - %(levelname)s - %(message)s
datefmt = %Y-%m-%d %H:%M:%S
`

func TestFromINI(t *testing.T) {
	ini, err := ParseINI(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("ParseINI failed: %v", err)
	}
	cfg := FromINI(ini)

	if !cfg.HasLoggers || !cfg.HasHandlers || !cfg.HasFormatters {
		t.Fatal("index sections not detected")
	}
	if diff := cmp.Diff([]string{"root", "robottelo"}, cfg.LoggerKeys); diff != "" {
		t.Errorf("logger keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"console", "logfile"}, cfg.HandlerKeys); diff != "" {
		t.Errorf("handler keys mismatch (-want +got):\n%s", diff)
	}

	robo := cfg.Loggers["robottelo"]
	if robo == nil {
		t.Fatal("missing [logger_robottelo]")
	}
	if robo.Level != "DEBUG" || robo.Qualname != "robottelo" || robo.Propagate != "0" {
		t.Errorf("logger fields = %+v", robo)
	}
	if diff := cmp.Diff([]string{"logfile"}, robo.Handlers); diff != "" {
		t.Errorf("logger handlers mismatch (-want +got):\n%s", diff)
	}

	console := cfg.Handlers["console"]
	if console == nil {
		t.Fatal("missing [handler_console]")
	}
	if console.Class != "StreamHandler" || console.Formatter != "brief" || console.Args != "(sys.stdout,)" {
		t.Errorf("handler fields = %+v", console)
	}

	brief := cfg.Formatters["brief"]
	if brief == nil {
		t.Fatal("missing [formatter_brief]")
	}
	if brief.DateFmt != "%Y-%m-%d %H:%M:%S" {
		t.Errorf("datefmt = %q", brief.DateFmt)
	}
}

func TestKeysListDistinguishesMissingAndEmpty(t *testing.T) {
	ini, err := ParseINI(strings.NewReader("[loggers]\nkeys =\n[handlers]\nother = x\n"))
	if err != nil {
		t.Fatalf("ParseINI failed: %v", err)
	}
	cfg := FromINI(ini)

	if cfg.LoggerKeys == nil || len(cfg.LoggerKeys) != 0 {
		t.Errorf("empty keys entry: got %#v, want empty non-nil slice", cfg.LoggerKeys)
	}
	if cfg.HandlerKeys != nil {
		t.Errorf("missing keys entry: got %#v, want nil", cfg.HandlerKeys)
	}
}

func TestValidLevel(t *testing.T) {
	for _, ok := range []string{"DEBUG", "info", " WARNING ", "fatal", "NOTSET"} {
		if !ValidLevel(ok) {
			t.Errorf("ValidLevel(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"VERBOSE", "TRACE", "", "INFO2"} {
		if ValidLevel(bad) {
			t.Errorf("ValidLevel(%q) = true, want false", bad)
		}
	}
}

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"%(asctime)s - %(name)s - %(levelname)s - %(message)s", false},
		{"plain text, 100%% plain", false},
		{"%(process)d %(message)s", false},
		{"", false},
		{"%(nope)s", true},      // unknown field
		{"%(message", true},     // unterminated token
		{"%(message)", true},    // missing conversion type
		{"%s and %(name)s", true}, // bare conversion
		{"trailing %", true},
	}
	for _, tt := range tests {
		err := CheckFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"('robottelo.log', 'a')", []string{"'robottelo.log'", "'a'"}, false},
		{"(sys.stdout,)", []string{"sys.stdout"}, false},
		{"('a,b', 'c')", []string{"'a,b'", "'c'"}, false},
		{"(('x', 1), 'y')", []string{"('x', 1)", "'y'"}, false},
		{"()", nil, false},
		{"", nil, false},
		{"'no parens'", nil, true},
		{"('open", nil, true},
		{"(('x')", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseArgs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseArgs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil {
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseArgs(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestStringArg(t *testing.T) {
	if s, ok := StringArg("'app.log'"); !ok || s != "app.log" {
		t.Errorf("StringArg single quotes = %q, %v", s, ok)
	}
	if s, ok := StringArg(`"a"`); !ok || s != "a" {
		t.Errorf("StringArg double quotes = %q, %v", s, ok)
	}
	if _, ok := StringArg("sys.stdout"); ok {
		t.Error("StringArg must reject non-literals")
	}
}
