// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/debug.go
// Summary: Package-level debug logger, silent unless enabled.

package history

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "history: ", log.LstdFlags)

// SetVerboseLogging routes debug output to stderr when enabled.
func SetVerboseLogging(enabled bool) {
	if enabled {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

func debugf(format string, args ...any) {
	debugLog.Printf(format, args...)
}
