// SPDX-License-Identifier: MIT

// Package fsutil provides durable file writes for the formatter.
package fsutil

import (
	"context"
	"fmt"
	"io"

	"github.com/google/renameio/v2"

	xlog "github.com/ManuGH/conflint/internal/log"
)

// WriteAtomic writes the output of fn to path atomically. renameio handles
// temp file creation, fsync and the final rename, so readers never observe
// a partially written file and a crash cannot truncate the original.
func WriteAtomic(ctx context.Context, path string, fn func(w io.Writer) error) error {
	logger := xlog.FromContext(ctx)

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		// Removes the temp file if we never committed.
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if err := fn(pending); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	return nil
}
