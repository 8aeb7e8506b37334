// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/cell.go
// Summary: Cell, color, and attribute model for the screen buffer.
// Usage: Shared by the screen buffer, the emulator, and renderers.

package vterm

import "strings"

// Attribute is a bitflag set of text attributes.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrHidden
	AttrStrikethrough
)

var attrNames = []struct {
	bit  Attribute
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrBlink, "blink"},
	{AttrReverse, "reverse"},
	{AttrHidden, "hidden"},
	{AttrStrikethrough, "strikethrough"},
}

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	for _, n := range attrNames {
		if a&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, "|")
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The 16 ANSI base+bright colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color is a tagged union over the four color modes. Equality is
// structural; there is no implicit conversion between modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Color index for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Channels for RGB mode
}

var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// Cell is a single character cell. Cells are immutable values; writes
// replace the whole cell.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attribute
	Wide bool // Wide marks a character occupying two columns
}

// DisplayWidth returns the number of columns the cell occupies.
func (c Cell) DisplayWidth() int {
	if c.Wide {
		return 2
	}
	return 1
}

// Line is an ordered run of exactly `columns` cells. Wrapped marks the
// line as a soft-wrap continuation of the previous line; it affects copy
// and reflow semantics, never parsing.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

// Text renders the line as a plain string, empty cells as spaces,
// trailing blanks trimmed.
func (l Line) Text() string {
	var b strings.Builder
	for _, c := range l.Cells {
		if c.Rune == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// Pen holds the current drawing attributes applied to newly written
// cells.
type Pen struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// CursorShape enumerates the presentation shapes of the cursor.
type CursorShape int

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// Cursor is the insertion point. Row and Col are 0-based and clamped to
// the buffer bounds at all times.
type Cursor struct {
	Row     int
	Col     int
	Visible bool
	Shape   CursorShape
}
