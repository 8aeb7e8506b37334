// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/text_test.go
// Summary: Tests for text placement, control characters, wide cells,
//          and parser-recovery interplay.

package vterm

import "testing"

// TestControlCharacters verifies the fixed C0 mappings.
func TestControlCharacters(t *testing.T) {
	h := newHarness(20, 5)

	h.feed("abc\bX")
	if got := h.rowText(0); got != "abX" {
		t.Errorf("after BS overwrite: %q", got)
	}

	h.feed("\r\n")
	if row, col := h.cursor(); row != 1 || col != 0 {
		t.Errorf("after CRLF: (%d,%d)", row, col)
	}

	h.feed("a\tb")
	if c := h.cell(1, 8); c.Rune != 'b' {
		t.Errorf("tab should land on column 8, cell = %q", c.Rune)
	}

	h.feed("\r\n0123456\tx")
	if c := h.cell(2, 8); c.Rune != 'x' {
		t.Errorf("tab from column 7 should land on 8, cell = %q", c.Rune)
	}
}

// TestBellNotification verifies BEL reaches the registered collaborator
// and nothing else happens to the buffer.
func TestBellNotification(t *testing.T) {
	rang := 0
	h := newHarness(20, 5, WithBellHandler(func() { rang++ }))
	h.feed("a\x07b")
	if rang != 1 {
		t.Errorf("bell handler called %d times, want 1", rang)
	}
	if got := h.rowText(0); got != "ab" {
		t.Errorf("row = %q", got)
	}
}

// TestTitleChange verifies OSC 0/2 update the title through the handler.
func TestTitleChange(t *testing.T) {
	var seen string
	h := newHarness(20, 5, WithTitleHandler(func(s string) { seen = s }))
	h.feed("\x1b]0;first\x07")
	if h.v.Title() != "first" || seen != "first" {
		t.Errorf("title = %q, handler saw %q", h.v.Title(), seen)
	}
	h.feed("\x1b]2;second\x1b\\")
	if h.v.Title() != "second" {
		t.Errorf("title = %q", h.v.Title())
	}
}

// TestWideCharacter verifies a CJK rune occupies two columns with the
// wide flag set.
func TestWideCharacter(t *testing.T) {
	h := newHarness(10, 3)
	h.feed("世x")
	c := h.cell(0, 0)
	if c.Rune != '世' || !c.Wide || c.DisplayWidth() != 2 {
		t.Errorf("wide cell = %+v", c)
	}
	if got := h.cell(0, 2); got.Rune != 'x' {
		t.Errorf("cursor should advance two columns, cell(0,2) = %q", got.Rune)
	}
}

// TestWideCharacterAtEdge verifies a wide rune never straddles the
// right edge.
func TestWideCharacterAtEdge(t *testing.T) {
	h := newHarness(4, 3)
	h.feed("abc世")
	if got := h.cell(1, 0); got.Rune != '世' {
		t.Errorf("wide rune should wrap whole, cell(1,0) = %q", got.Rune)
	}
}

// TestUnknownCSIRecovery verifies that an unrecognized
// final byte leaves the stream intact for the next command.
func TestUnknownCSIRecovery(t *testing.T) {
	h := newHarness(20, 5)
	h.feed("\x1b[5;5H")
	h.feed("\x1b[1;2Z") // unhandled final byte: ignored
	h.feed("\x1b[1A")   // must still execute
	if row, col := h.cursor(); row != 3 || col != 4 {
		t.Errorf("cursor = (%d,%d), want (3,4)", row, col)
	}
}

// TestFullReset verifies ESC c clears the screen and resets attributes.
func TestFullReset(t *testing.T) {
	h := newHarness(10, 3)
	h.feed("\x1b[1;31mcolored\x1b[?25l")
	h.feed("\x1bc")
	for y := 0; y < 3; y++ {
		if got := h.rowText(y); got != "" {
			t.Errorf("row %d not cleared: %q", y, got)
		}
	}
	if row, col := h.cursor(); row != 0 || col != 0 {
		t.Errorf("cursor = (%d,%d)", row, col)
	}
	if !h.v.Screen().Cursor().Visible {
		t.Error("cursor should be visible after reset")
	}
	h.feed("x")
	if c := h.cell(0, 0); c.Attr != 0 || c.FG.Mode != ColorModeDefault {
		t.Errorf("pen not reset: %+v", c)
	}
}

// TestResizeInvariants verifies every line keeps exactly `columns`
// cells through resizes and the cursor stays in bounds.
func TestResizeInvariants(t *testing.T) {
	h := newHarness(10, 5)
	h.feed("some text here\r\nsecond line")
	h.v.Resize(6, 3)
	cols, rows := h.v.Screen().Size()
	if cols != 6 || rows != 3 {
		t.Fatalf("size = (%d,%d)", cols, rows)
	}
	for y := 0; y < rows; y++ {
		if got := len(h.v.Screen().LineAt(y).Cells); got != cols {
			t.Errorf("row %d length = %d, want %d", y, got, cols)
		}
	}
	cur := h.v.Screen().Cursor()
	if cur.Row >= rows || cur.Col >= cols {
		t.Errorf("cursor out of bounds: %+v", cur)
	}

	h.v.Resize(20, 8)
	cols, rows = h.v.Screen().Size()
	for y := 0; y < rows; y++ {
		if got := len(h.v.Screen().LineAt(y).Cells); got != cols {
			t.Errorf("row %d length = %d after grow, want %d", y, got, cols)
		}
	}
}

// TestDECSTBMIsRecordedNotApplied verifies scroll regions are parsed
// without effect on scrolling.
func TestDECSTBMIsRecordedNotApplied(t *testing.T) {
	h := newHarness(10, 5)
	h.feed("\x1b[2;4r") // would confine scrolling to rows 2-4
	h.feed("\x1b[1;1Htop")
	h.feed("\x1b[5;1H\r\n") // line feed on the last row scrolls the whole screen
	if got := h.rowText(0); got == "top" {
		t.Error("full-screen scroll should have moved the top line")
	}
}
