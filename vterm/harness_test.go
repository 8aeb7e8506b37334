// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/harness_test.go
// Summary: Headless test harness: parser wired to an emulator.
// Usage: Shared by the emulator test files.

package vterm

import (
	"strings"

	"github.com/framegrace/texelterm/parser"
)

// harness couples a parser and an emulator so tests can drive the
// emulator with raw escape-sequence strings, the way PTY output would.
type harness struct {
	v *VTerm
	p *parser.Parser
}

func newHarness(cols, rows int, opts ...Option) *harness {
	v := New(cols, rows, opts...)
	return &harness{v: v, p: parser.New(v)}
}

// feed parses a raw byte string, flushing trailing text.
func (h *harness) feed(s string) {
	h.p.Feed([]byte(s))
	h.p.Flush()
}

func (h *harness) cell(row, col int) Cell {
	return h.v.Screen().CellAt(row, col)
}

func (h *harness) cursor() (row, col int) {
	c := h.v.Screen().Cursor()
	return c.Row, c.Col
}

// rowText renders a row as a trimmed string.
func (h *harness) rowText(row int) string {
	cols, _ := h.v.Screen().Size()
	var b strings.Builder
	for x := 0; x < cols; x++ {
		c := h.cell(row, x)
		if c.Rune == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// screenText renders the whole grid, one row per line.
func (h *harness) screenText() string {
	_, rows := h.v.Screen().Size()
	out := make([]string, rows)
	for y := 0; y < rows; y++ {
		out[y] = h.rowText(y)
	}
	return strings.Join(out, "\n")
}

// defaultCell reports whether a cell is an untouched blank.
func defaultCell(c Cell) bool {
	return (c.Rune == ' ' || c.Rune == 0) && c.Attr == 0 &&
		c.FG.Mode == ColorModeDefault && c.BG.Mode == ColorModeDefault
}
