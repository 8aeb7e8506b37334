// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/cursor_test.go
// Summary: Tests for cursor movement and save/restore sequences.

package vterm

import "testing"

// TestCursorPosition verifies CUP with 1-based parameters and clamping.
func TestCursorPosition(t *testing.T) {
	tests := []struct {
		name     string
		seq      string
		row, col int
	}{
		{"no params homes", "\x1b[H", 0, 0},
		{"explicit home", "\x1b[1;1H", 0, 0},
		{"row 5 col 10", "\x1b[5;10H", 4, 9},
		{"HVP alias", "\x1b[3;4f", 2, 3},
		{"clamped to bounds", "\x1b[99;99H", 9, 19},
		{"zero params treated as 1", "\x1b[0;0H", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(20, 10)
			h.feed(tt.seq)
			row, col := h.cursor()
			if row != tt.row || col != tt.col {
				t.Errorf("cursor = (%d,%d), want (%d,%d)", row, col, tt.row, tt.col)
			}
		})
	}
}

// TestRelativeMovement verifies CUU/CUD/CUF/CUB with max(1, param)
// semantics and clamping.
func TestRelativeMovement(t *testing.T) {
	h := newHarness(20, 10)
	h.feed("\x1b[5;5H")

	h.feed("\x1b[2A") // up 2
	if row, col := h.cursor(); row != 2 || col != 4 {
		t.Errorf("after CUU 2: (%d,%d)", row, col)
	}
	h.feed("\x1b[B") // down, default 1
	if row, _ := h.cursor(); row != 3 {
		t.Errorf("after CUD: row %d", row)
	}
	h.feed("\x1b[10C") // forward 10
	if _, col := h.cursor(); col != 14 {
		t.Errorf("after CUF 10: col %d", col)
	}
	h.feed("\x1b[0D") // zero param means 1
	if _, col := h.cursor(); col != 13 {
		t.Errorf("after CUB 0: col %d", col)
	}
	h.feed("\x1b[99A") // clamp at top
	if row, _ := h.cursor(); row != 0 {
		t.Errorf("after CUU 99: row %d", row)
	}
}

// TestNextPrevLine verifies CNL/CPL reset the column.
func TestNextPrevLine(t *testing.T) {
	h := newHarness(20, 10)
	h.feed("\x1b[5;8H\x1b[2E")
	if row, col := h.cursor(); row != 6 || col != 0 {
		t.Errorf("after CNL 2: (%d,%d)", row, col)
	}
	h.feed("\x1b[5;8H\x1b[3F")
	if row, col := h.cursor(); row != 1 || col != 0 {
		t.Errorf("after CPL 3: (%d,%d)", row, col)
	}
}

// TestHorizontalAbsolute verifies CHA.
func TestHorizontalAbsolute(t *testing.T) {
	h := newHarness(20, 10)
	h.feed("\x1b[3;3H\x1b[7G")
	if row, col := h.cursor(); row != 2 || col != 6 {
		t.Errorf("after CHA 7: (%d,%d)", row, col)
	}
	h.feed("\x1b[99G")
	if _, col := h.cursor(); col != 19 {
		t.Errorf("CHA clamp: col %d", col)
	}
}

// TestSaveRestoreCursor verifies the single-slot save via CSI s/u and
// ESC 7/8, including pen restoration.
func TestSaveRestoreCursor(t *testing.T) {
	h := newHarness(20, 10)
	h.feed("\x1b[4;6H\x1b[1;31m\x1b[s")
	h.feed("\x1b[0m\x1b[1;1H")
	h.feed("\x1b[u")
	if row, col := h.cursor(); row != 3 || col != 5 {
		t.Errorf("after CSI u: (%d,%d)", row, col)
	}
	h.feed("X")
	c := h.cell(3, 5)
	if c.Attr&AttrBold == 0 || c.FG != (Color{Mode: ColorModeStandard, Value: 1}) {
		t.Errorf("restored pen not applied: attr=%v fg=%+v", c.Attr, c.FG)
	}

	h.feed("\x1b[8;2H\x1b7\x1b[1;1H\x1b8")
	if row, col := h.cursor(); row != 7 || col != 1 {
		t.Errorf("after ESC 8: (%d,%d)", row, col)
	}
}

// TestIndexAndReverseIndex verifies ESC D/E/M, including the documented
// no-op for reverse index at the top margin.
func TestIndexAndReverseIndex(t *testing.T) {
	h := newHarness(20, 10)
	h.feed("\x1b[3;5H\x1bD")
	if row, col := h.cursor(); row != 3 || col != 4 {
		t.Errorf("after IND: (%d,%d)", row, col)
	}
	h.feed("\x1bE")
	if row, col := h.cursor(); row != 4 || col != 0 {
		t.Errorf("after NEL: (%d,%d)", row, col)
	}
	h.feed("\x1b[2;5H\x1bM")
	if row, _ := h.cursor(); row != 0 {
		t.Errorf("after RI: row %d", row)
	}
	// At the top margin reverse index must not scroll the buffer down.
	h.feed("\x1b[1;1Htop")
	h.feed("\x1b[1;1H\x1bM")
	if got := h.rowText(0); got != "top" {
		t.Errorf("RI at top scrolled: row 0 = %q", got)
	}
}

// TestCursorVisibility verifies DECTCEM (private mode 25).
func TestCursorVisibility(t *testing.T) {
	h := newHarness(20, 10)
	if !h.v.Screen().Cursor().Visible {
		t.Fatal("cursor should start visible")
	}
	h.feed("\x1b[?25l")
	if h.v.Screen().Cursor().Visible {
		t.Error("cursor should be hidden after DECRST 25")
	}
	h.feed("\x1b[?25h")
	if !h.v.Screen().Cursor().Visible {
		t.Error("cursor should be visible after DECSET 25")
	}
}
