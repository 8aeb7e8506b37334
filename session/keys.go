// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/keys.go
// Summary: Key-event encoding into the byte sequences shells expect.
// Notes: Covers the fixed set a VT100-compatible child understands;
//        anything fancier belongs in the presentation layer.

package session

// Key identifies a non-literal key. Literal characters travel as
// KeyRune with the rune set.
type Key int

const (
	KeyRune Key = iota
	KeyReturn
	KeyDelete // backspace key, sent as DEL
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
)

// KeyEvent is one keystroke from the presentation layer.
type KeyEvent struct {
	Key  Key
	Rune rune
	Ctrl bool
}

// Encode translates a key event into the bytes written to the child's
// input. Unknown keys encode to nil and are dropped.
func Encode(ev KeyEvent) []byte {
	switch ev.Key {
	case KeyRune:
		r := ev.Rune
		if ev.Ctrl {
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			if r >= 'a' && r <= 'z' {
				return []byte{byte(r) - 0x60}
			}
		}
		if r == 0 {
			return nil
		}
		return []byte(string(r))
	case KeyReturn:
		return []byte{'\r'}
	case KeyDelete:
		return []byte{0x7F}
	case KeyTab:
		return []byte{'\t'}
	case KeyEscape:
		return []byte{0x1B}
	case KeyUp:
		return []byte("\x1b[A")
	case KeyDown:
		return []byte("\x1b[B")
	case KeyRight:
		return []byte("\x1b[C")
	case KeyLeft:
		return []byte("\x1b[D")
	case KeyHome:
		return []byte("\x1b[H")
	case KeyEnd:
		return []byte("\x1b[F")
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	}
	return nil
}
