// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/palette.go
// Summary: xterm 256-color palette as plain RGB triples.
// Usage: Renderers resolve indexed cell colors through a Palette.

package vterm

// RGB is a resolved 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Palette maps the 256 indexed colors to RGB values. Entries 0-15 are
// the ANSI base+bright colors, 16-231 the 6x6x6 cube, 232-255 the
// grayscale ramp.
type Palette [256]RGB

// DefaultPalette returns the standard xterm 256-color palette.
func DefaultPalette() *Palette {
	var p Palette
	// First 16 ANSI colors
	p[0] = RGB{0, 0, 0}        // Black
	p[1] = RGB{128, 0, 0}      // Maroon
	p[2] = RGB{0, 128, 0}      // Green
	p[3] = RGB{128, 128, 0}    // Olive
	p[4] = RGB{0, 0, 128}      // Navy
	p[5] = RGB{128, 0, 128}    // Purple
	p[6] = RGB{0, 128, 128}    // Teal
	p[7] = RGB{192, 192, 192}  // Silver
	p[8] = RGB{128, 128, 128}  // Grey
	p[9] = RGB{255, 0, 0}      // Red
	p[10] = RGB{0, 255, 0}     // Lime
	p[11] = RGB{255, 255, 0}   // Yellow
	p[12] = RGB{0, 0, 255}     // Blue
	p[13] = RGB{255, 0, 255}   // Fuchsia
	p[14] = RGB{0, 255, 255}   // Aqua
	p[15] = RGB{255, 255, 255} // White

	// 6x6x6 color cube
	levels := []uint8{0, 95, 135, 175, 215, 255}
	i := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p[i] = RGB{levels[r], levels[g], levels[b]}
				i++
			}
		}
	}

	// Grayscale ramp
	for j := 0; j < 24; j++ {
		gray := uint8(8 + j*10)
		p[i] = RGB{gray, gray, gray}
		i++
	}

	return &p
}

// Resolve maps a cell color to RGB, falling back to def for the default
// mode.
func (p *Palette) Resolve(c Color, def RGB) RGB {
	switch c.Mode {
	case ColorModeStandard, ColorMode256:
		return p[c.Value]
	case ColorModeRGB:
		return RGB{c.R, c.G, c.B}
	default:
		return def
	}
}
