// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm_csi.go
// Summary: Core CSI dispatch table.
// Usage: Part of the VTerm terminal emulator.

package vterm

// param returns the i-th parameter, substituting defaultVal for missing
// or zero entries.
func param(params []int, i, defaultVal int) int {
	if i < len(params) && params[i] != 0 {
		return params[i]
	}
	return defaultVal
}

// CSI interprets a parsed control sequence and calls the appropriate
// handler. Unknown final bytes are ignored so a malformed client can
// never corrupt the buffer.
func (v *VTerm) CSI(final byte, params []int, private bool) {
	if final == 'h' || final == 'l' {
		if private {
			v.processPrivateMode(final, params)
		}
		// Non-private SM/RM modes are not interpreted.
		return
	}

	switch final {
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'f':
		v.handleCursorMovement(final, params)
	case 'J':
		v.handleEraseDisplay(param(params, 0, 0))
	case 'K':
		v.handleEraseLine(param(params, 0, 0))
	case 'L':
		v.screen.InsertLines(v.screen.Cursor().Row, param(params, 0, 1))
	case 'M':
		v.screen.DeleteLines(v.screen.Cursor().Row, param(params, 0, 1))
	case 'P':
		cur := v.screen.Cursor()
		v.screen.DeleteCells(cur.Row, cur.Col, param(params, 0, 1))
	case '@':
		cur := v.screen.Cursor()
		v.screen.InsertCells(cur.Row, cur.Col, param(params, 0, 1))
	case 'm':
		v.handleSGR(params)
	case 'r': // DECSTBM: parsed and recorded, intentionally not applied
		_, rows := v.screen.Size()
		v.marginTop = param(params, 0, 1) - 1
		v.marginBottom = param(params, 1, rows) - 1
	case 's':
		v.screen.SaveCursor()
	case 'u':
		v.screen.RestoreCursor()
	default:
		debugf("unhandled CSI sequence: %q, params: %v", final, params)
	}
}

func (v *VTerm) handleCursorMovement(final byte, params []int) {
	cur := v.screen.Cursor()
	n := param(params, 0, 1)
	switch final {
	case 'A':
		v.screen.SetCursorPos(cur.Row-n, cur.Col)
	case 'B':
		v.screen.SetCursorPos(cur.Row+n, cur.Col)
	case 'C':
		v.screen.SetCursorPos(cur.Row, cur.Col+n)
	case 'D':
		v.screen.SetCursorPos(cur.Row, cur.Col-n)
	case 'E': // CNL: down n lines, column 0
		v.screen.SetCursorPos(cur.Row+n, 0)
	case 'F': // CPL: up n lines, column 0
		v.screen.SetCursorPos(cur.Row-n, 0)
	case 'G': // CHA
		v.screen.SetCursorPos(cur.Row, n-1)
	case 'H', 'f': // CUP/HVP: 1-based row;col, clamped
		v.screen.SetCursorPos(param(params, 0, 1)-1, param(params, 1, 1)-1)
	}
}

// handleEraseDisplay implements ED. Mode 1 (start-to-cursor) is a
// documented no-op.
func (v *VTerm) handleEraseDisplay(mode int) {
	cur := v.screen.Cursor()
	_, rows := v.screen.Size()
	switch mode {
	case 0: // cursor to end of screen
		v.handleEraseLine(0)
		if cur.Row+1 < rows {
			v.screen.ClearRows(cur.Row+1, rows-1)
		}
	case 2, 3: // entire screen
		v.screen.ClearRows(0, rows-1)
	}
}

// handleEraseLine implements EL. Mode 1 is a documented no-op.
func (v *VTerm) handleEraseLine(mode int) {
	cur := v.screen.Cursor()
	cols, _ := v.screen.Size()
	switch mode {
	case 0: // cursor to end of line
		v.screen.ClearLineRange(cur.Row, cur.Col, cols-1)
	case 2: // entire line
		v.screen.ClearLineRange(cur.Row, 0, cols-1)
	}
}

// processPrivateMode handles DECSET/DECRST (`CSI ? ... h/l`).
func (v *VTerm) processPrivateMode(final byte, params []int) {
	if len(params) == 0 {
		return
	}
	set := final == 'h'
	for _, mode := range params {
		switch mode {
		case 25:
			v.screen.SetCursorVisible(set)
		case 47, 1047:
			if set {
				v.screen.EnterAlt()
			} else {
				v.screen.LeaveAlt(false)
			}
		case 1049:
			if set {
				v.screen.EnterAlt()
			} else {
				v.screen.LeaveAlt(true)
			}
		default:
			debugf("ignored private mode %d (set=%v)", mode, set)
		}
	}
}
