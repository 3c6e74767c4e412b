// SPDX-License-Identifier: MIT

package config

import (
	"github.com/ManuGH/conflint/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	for _, m := range cfg.Manifests {
		v.NotEmpty("Manifests", m)
	}
	for _, lc := range cfg.LoggingConfigs {
		v.NotEmpty("LoggingConfigs", lc)
	}

	v.OneOf("Output", cfg.Output, []string{"text", "json"})
	v.OneOf("LogLevel", cfg.LogLevel, []string{"trace", "debug", "info", "warn", "error"})

	if cfg.Concurrency < 0 {
		v.AddError("Concurrency", "must be >= 0", cfg.Concurrency)
	}

	// Debounce below 10ms thrashes on editors that write in bursts.
	v.Range("WatchDebounce", int(cfg.WatchDebounce.Milliseconds()), 10, 60000)

	if cfg.HistoryEnabled {
		v.NotEmpty("HistoryPath", cfg.HistoryPath)
	}

	if !v.IsValid() {
		return v.Err()
	}

	return nil
}
