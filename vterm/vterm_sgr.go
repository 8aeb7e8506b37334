// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm_sgr.go
// Summary: SGR (Select Graphic Rendition) - text attributes and colors.
// Usage: Part of the VTerm terminal emulator.

package vterm

// handleSGR processes SGR parameters left-to-right. Unknown codes are
// ignored; malformed 38/48 extended-color sequences are silently
// truncated and the remaining parameters are still processed.
func (v *VTerm) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	pen := v.screen.Pen()
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			pen = Pen{}
		case p >= 1 && p <= 9:
			pen.Attr |= sgrAttrBit(p)
		case p == 21:
			pen.Attr &^= AttrBold
		case p == 22:
			pen.Attr &^= AttrBold | AttrDim
		case p >= 23 && p <= 29:
			pen.Attr &^= sgrAttrBit(p - 20)
		case p >= 30 && p <= 37:
			pen.FG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 39:
			pen.FG = DefaultFG
		case p >= 40 && p <= 47:
			pen.BG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 49:
			pen.BG = DefaultBG
		case p == 38:
			if c, consumed, ok := extendedColor(params[i+1:]); ok {
				pen.FG = c
				i += consumed
			}
		case p == 48:
			if c, consumed, ok := extendedColor(params[i+1:]); ok {
				pen.BG = c
				i += consumed
			}
		case p >= 90 && p <= 97: // bright foreground
			pen.FG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107: // bright background
			pen.BG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		}
		i++
	}
	v.screen.SetPen(pen)
}

// sgrAttrBit maps SGR codes 1-9 to attribute bits. Codes 6 (rapid
// blink) folds into blink.
func sgrAttrBit(code int) Attribute {
	switch code {
	case 1:
		return AttrBold
	case 2:
		return AttrDim
	case 3:
		return AttrItalic
	case 4:
		return AttrUnderline
	case 5, 6:
		return AttrBlink
	case 7:
		return AttrReverse
	case 8:
		return AttrHidden
	case 9:
		return AttrStrikethrough
	}
	return 0
}

// extendedColor parses the tail of a 38/48 sequence: `5;n` selects a
// palette color, `2;r;g;b` an RGB color. It reports how many parameters
// it consumed; a truncated tail consumes nothing.
func extendedColor(tail []int) (Color, int, bool) {
	if len(tail) >= 2 && tail[0] == 5 {
		return Color{Mode: ColorMode256, Value: uint8(tail[1])}, 2, true
	}
	if len(tail) >= 4 && tail[0] == 2 {
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(tail[1]),
			G:    uint8(tail[2]),
			B:    uint8(tail[3]),
		}, 4, true
	}
	return Color{}, 0, false
}
