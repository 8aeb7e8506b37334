// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/debug.go
// Summary: Discard-by-default debug logging for emulator diagnostics.

package vterm

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "vterm: ", log.LstdFlags)

// SetVerboseLogging toggles verbose emulator logging. When disabled
// (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

func debugf(format string, args ...interface{}) {
	debugLog.Printf(format, args...)
}
