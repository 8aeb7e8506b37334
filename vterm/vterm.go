// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/vterm.go
// Summary: Terminal emulator: applies parser events to the screen buffer.
// Usage: Register a VTerm as the parser's handler; query it for state.
// Notes: Pure interpretation, no I/O. VT100/xterm semantics.

package vterm

import (
	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// VTerm consumes parser events and mutates a Screen according to
// VT100/xterm semantics. It implements parser.Handler.
type VTerm struct {
	screen *Screen
	title  string

	// DECSTBM margins are parsed and recorded but intentionally never
	// applied; see design notes.
	marginTop, marginBottom int

	onBell  func()
	onTitle func(string)
}

// Option configures a VTerm at construction.
type Option func(*VTerm)

// WithScrollbackCap bounds the scrollback list.
func WithScrollbackCap(n int) Option {
	return func(v *VTerm) {
		if n >= 0 {
			v.screen.sbCap = n
		}
	}
}

// WithBellHandler registers the collaborator notified on BEL. The
// emulator never rings a bell itself.
func WithBellHandler(fn func()) Option {
	return func(v *VTerm) { v.onBell = fn }
}

// WithTitleHandler registers the collaborator notified on OSC 0/2 title
// changes.
func WithTitleHandler(fn func(string)) Option {
	return func(v *VTerm) { v.onTitle = fn }
}

// WithEvictionHandler receives lines dropped from the scrollback cap,
// e.g. to archive them on disk.
func WithEvictionHandler(fn func(Line)) Option {
	return func(v *VTerm) { v.screen.evict = fn }
}

// New creates an emulator with a fresh screen buffer.
func New(cols, rows int, opts ...Option) *VTerm {
	v := &VTerm{
		screen:       NewScreen(cols, rows),
		marginTop:    0,
		marginBottom: rows - 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Screen exposes the underlying buffer for read-only queries.
func (v *VTerm) Screen() *Screen { return v.screen }

// Title returns the last title set via OSC 0/2.
func (v *VTerm) Title() string { return v.title }

// Resize adjusts the screen geometry and resets the recorded margins.
func (v *VTerm) Resize(cols, rows int) {
	v.screen.Resize(cols, rows)
	v.marginTop = 0
	v.marginBottom = rows - 1
}

// --- parser.Handler ---

// Text writes a run of printable characters at the cursor.
func (v *VTerm) Text(s string) {
	for _, r := range s {
		v.placeChar(r)
	}
}

// Control applies a C0 control character. The mappings are fixed and
// non-overridable.
func (v *VTerm) Control(c byte) {
	switch c {
	case 0x07: // BEL
		if v.onBell != nil {
			v.onBell()
		}
	case 0x08: // BS
		cur := v.screen.Cursor()
		v.screen.SetCursorPos(cur.Row, cur.Col-1)
	case 0x09: // HT: advance to the next multiple of 8
		cur := v.screen.Cursor()
		next := (cur.Col/tabWidth + 1) * tabWidth
		v.screen.SetCursorPos(cur.Row, next)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		v.lineFeed()
	case 0x0D: // CR
		cur := v.screen.Cursor()
		v.screen.SetCursorPos(cur.Row, 0)
	default:
		// Remaining controls (NUL, SI/SO, DEL, ...) are ignored.
	}
}

// Escape applies a simple ESC-finalized sequence.
func (v *VTerm) Escape(final byte) {
	switch final {
	case '7':
		v.screen.SaveCursor()
	case '8':
		v.screen.RestoreCursor()
	case 'D': // IND: line feed preserving column
		v.lineFeed()
	case 'E': // NEL: line feed to column 0
		v.lineFeed()
		cur := v.screen.Cursor()
		v.screen.SetCursorPos(cur.Row, 0)
	case 'M': // RI: reverse index. Scrolling down at the top margin is a
		// documented no-op; the cursor just clamps.
		cur := v.screen.Cursor()
		if cur.Row > 0 {
			v.screen.SetCursorPos(cur.Row-1, cur.Col)
		}
	case 'c': // RIS: full reset
		v.fullReset()
	case '=', '>': // keypad modes, ignored
	default:
		debugf("unhandled ESC sequence: %q", final)
	}
}

// OSC applies an operating system command. Only title changes are
// interpreted; everything else is dropped.
func (v *VTerm) OSC(num int, data string) {
	switch num {
	case 0, 2:
		v.title = data
		if v.onTitle != nil {
			v.onTitle(data)
		}
	default:
		debugf("ignored OSC %d", num)
	}
}

// --- text placement ---

func (v *VTerm) placeChar(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and other zero-width runes are dropped; true
		// grapheme clustering is out of scope.
		return
	}

	cur := v.screen.Cursor()
	cols, _ := v.screen.Size()

	if w == 2 && cur.Col == cols-1 {
		// A wide character cannot straddle the right edge: wrap first.
		v.wrapToNextLine()
		cur = v.screen.Cursor()
	}

	pen := v.screen.Pen()
	v.screen.SetCell(cur.Row, cur.Col, Cell{
		Rune: r,
		FG:   pen.FG,
		BG:   pen.BG,
		Attr: pen.Attr,
		Wide: w == 2,
	})
	if w == 2 {
		v.screen.SetCell(cur.Row, cur.Col+1, Cell{
			Rune: ' ',
			FG:   pen.FG,
			BG:   pen.BG,
			Attr: pen.Attr,
		})
	}

	if cur.Col+w >= cols {
		v.wrapToNextLine()
	} else {
		v.screen.SetCursorPos(cur.Row, cur.Col+w)
	}
}

// wrapToNextLine performs the soft wrap at the right edge: column 0 plus
// a line feed, with the continuation line flagged.
func (v *VTerm) wrapToNextLine() {
	cur := v.screen.Cursor()
	v.screen.SetCursorPos(cur.Row, 0)
	v.lineFeed()
	v.screen.SetWrapped(v.screen.Cursor().Row, true)
}

// lineFeed moves the cursor down, scrolling at the bottom row.
func (v *VTerm) lineFeed() {
	cur := v.screen.Cursor()
	_, rows := v.screen.Size()
	if cur.Row >= rows-1 {
		v.screen.ScrollUp()
		v.screen.SetCursorPos(rows-1, cur.Col)
	} else {
		v.screen.SetCursorPos(cur.Row+1, cur.Col)
	}
}

// fullReset clears the screen and resets attributes, modes, and title.
func (v *VTerm) fullReset() {
	if v.screen.AltActive() {
		v.screen.LeaveAlt(false)
	}
	v.screen.SetPen(Pen{})
	_, rows := v.screen.Size()
	v.screen.ClearRows(0, rows-1)
	v.screen.SetCursorPos(0, 0)
	v.screen.SetCursorVisible(true)
	v.marginTop = 0
	v.marginBottom = rows - 1
}
