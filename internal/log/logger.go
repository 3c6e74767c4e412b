// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities for conflint.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // optional service name attached to every log entry
	Version string    // optional version attached to every log entry
}

var (
	mu   sync.Mutex
	base zerolog.Logger
	done bool
)

// Configure initialises the global zerolog logger. The first call wins;
// Reconfigure replaces the logger once config has been loaded.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if done {
		return
	}
	base = build(cfg)
	done = true
}

// Reconfigure replaces the global logger with one built from cfg.
// Used after the tool configuration has been loaded.
func Reconfigure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	base = build(cfg)
	done = true
}

func build(cfg Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	service := cfg.Service
	if service == "" {
		service = "conflint"
	}

	ctx := zerolog.New(writer).With().
		Timestamp().
		Str("service", service)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger()
}

func logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !done {
		base = build(Config{})
		done = true
	}
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str("component", component).Logger()
}
