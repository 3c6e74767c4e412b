// SPDX-License-Identifier: MIT

package requirements

import "errors"

var (
	// ErrSpecifier classifies requirement parse failures caused by the
	// version-specifier portion of the line. Use errors.Is(err, ErrSpecifier)
	// instead of string matching.
	ErrSpecifier = errors.New("invalid version specifier")
)
