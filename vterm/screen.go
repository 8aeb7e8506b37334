// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/screen.go
// Summary: Screen buffer: grid, cursor, scrollback, alternate screen.
// Usage: Mutated by the emulator; read by the presentation layer.
// Notes: Knows nothing about bytes or escape codes.

package vterm

// DefaultScrollbackCap bounds the scrollback list; the oldest line is
// evicted first when the cap is exceeded.
const DefaultScrollbackCap = 10000

type savedCursor struct {
	row, col int
	pen      Pen
	valid    bool
}

// Screen owns the active grid, the cursor, the bounded scrollback, and
// the alternate-screen swap. Exactly one of primary/alternate is active
// at a time; scrollback accumulates from the primary screen only.
type Screen struct {
	cols, rows int

	lines      []Line // active grid, len == rows, each len == cols
	scrollback []Line
	sbCap      int

	cursor Cursor
	saved  savedCursor
	pen    Pen

	altActive  bool
	mainLines  []Line
	mainCursor Cursor

	evict func(Line)
}

// NewScreen creates a screen buffer of the given geometry.
func NewScreen(cols, rows int) *Screen {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &Screen{
		cols:  cols,
		rows:  rows,
		sbCap: DefaultScrollbackCap,
		cursor: Cursor{
			Visible: true,
			Shape:   CursorBlock,
		},
	}
	s.lines = s.blankGrid()
	return s
}

func (s *Screen) blankCell() Cell {
	return Cell{Rune: ' ', FG: s.pen.FG, BG: s.pen.BG}
}

func (s *Screen) blankLine() Line {
	cells := make([]Cell, s.cols)
	blank := s.blankCell()
	for i := range cells {
		cells[i] = blank
	}
	return Line{Cells: cells}
}

func (s *Screen) blankGrid() []Line {
	lines := make([]Line, s.rows)
	for i := range lines {
		lines[i] = s.blankLine()
	}
	return lines
}

// Size returns (columns, rows).
func (s *Screen) Size() (cols, rows int) { return s.cols, s.rows }

// Cursor returns the current cursor.
func (s *Screen) Cursor() Cursor { return s.cursor }

// Pen returns the current drawing attributes.
func (s *Screen) Pen() Pen { return s.pen }

// SetPen replaces the current drawing attributes.
func (s *Screen) SetPen(p Pen) { s.pen = p }

// AltActive reports whether the alternate screen is in use.
func (s *Screen) AltActive() bool { return s.altActive }

// SetCursorPos moves the cursor, clamping to the buffer bounds.
func (s *Screen) SetCursorPos(row, col int) {
	if row < 0 {
		row = 0
	}
	if row >= s.rows {
		row = s.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= s.cols {
		col = s.cols - 1
	}
	s.cursor.Row = row
	s.cursor.Col = col
}

// SetCursorVisible toggles cursor visibility.
func (s *Screen) SetCursorVisible(v bool) { s.cursor.Visible = v }

// SetCursorShape sets the cursor presentation shape.
func (s *Screen) SetCursorShape(sh CursorShape) { s.cursor.Shape = sh }

// SetCell writes a cell at the given position. Out-of-range writes are
// dropped.
func (s *Screen) SetCell(row, col int, c Cell) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return
	}
	s.lines[row].Cells[col] = c
}

// CellAt returns the cell at the given position, or a blank cell when
// out of range.
func (s *Screen) CellAt(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return s.blankCell()
	}
	return s.lines[row].Cells[col]
}

// SetWrapped flags a row as a soft-wrap continuation.
func (s *Screen) SetWrapped(row int, wrapped bool) {
	if row >= 0 && row < s.rows {
		s.lines[row].Wrapped = wrapped
	}
}

// LineAt returns the line at the given row; callers must not mutate it.
func (s *Screen) LineAt(row int) Line {
	if row < 0 || row >= s.rows {
		return s.blankLine()
	}
	return s.lines[row]
}

// SaveCursor stores the cursor position and pen in the single save slot.
func (s *Screen) SaveCursor() {
	s.saved = savedCursor{row: s.cursor.Row, col: s.cursor.Col, pen: s.pen, valid: true}
}

// RestoreCursor restores the saved slot; a restore without a prior save
// homes the cursor with a default pen.
func (s *Screen) RestoreCursor() {
	if !s.saved.valid {
		s.SetCursorPos(0, 0)
		s.pen = Pen{}
		return
	}
	s.SetCursorPos(s.saved.row, s.saved.col)
	s.pen = s.saved.pen
}

// --- Scrolling & scrollback ---

// lineBlank reports whether every cell of the line is an untouched
// default cell.
func lineBlank(l Line) bool {
	for _, c := range l.Cells {
		if (c.Rune != ' ' && c.Rune != 0) || c.Attr != 0 ||
			c.FG.Mode != ColorModeDefault || c.BG.Mode != ColorModeDefault {
			return false
		}
	}
	return true
}

// ScrollUp removes the top line and appends a blank line at the bottom.
// On the primary screen a non-blank top line is retained in scrollback;
// the alternate screen never feeds scrollback.
func (s *Screen) ScrollUp() {
	top := s.lines[0]
	if !s.altActive && !lineBlank(top) {
		s.pushScrollback(top)
	}
	copy(s.lines, s.lines[1:])
	s.lines[s.rows-1] = s.blankLine()
}

func (s *Screen) pushScrollback(l Line) {
	s.scrollback = append(s.scrollback, l)
	for len(s.scrollback) > s.sbCap {
		old := s.scrollback[0]
		// Shift rather than reslice so the backing array does not pin
		// evicted lines.
		copy(s.scrollback, s.scrollback[1:])
		s.scrollback = s.scrollback[:len(s.scrollback)-1]
		if s.evict != nil {
			s.evict(old)
		}
	}
}

// ScrollbackLen returns the number of retained scrollback lines.
func (s *Screen) ScrollbackLen() int { return len(s.scrollback) }

// ScrollbackLine returns a retained line by index, oldest first.
func (s *Screen) ScrollbackLine(i int) Line {
	if i < 0 || i >= len(s.scrollback) {
		return s.blankLine()
	}
	return s.scrollback[i]
}

// --- Line and cell editing ---

// InsertLines inserts n blank lines at row, shifting following lines
// down; lines pushed past the bottom are discarded.
func (s *Screen) InsertLines(row, n int) {
	if row < 0 || row >= s.rows || n < 1 {
		return
	}
	if n > s.rows-row {
		n = s.rows - row
	}
	copy(s.lines[row+n:], s.lines[row:s.rows-n])
	for i := row; i < row+n; i++ {
		s.lines[i] = s.blankLine()
	}
}

// DeleteLines removes n lines at row, shifting following lines up and
// filling the bottom with blanks. The row count is preserved.
func (s *Screen) DeleteLines(row, n int) {
	if row < 0 || row >= s.rows || n < 1 {
		return
	}
	if n > s.rows-row {
		n = s.rows - row
	}
	copy(s.lines[row:], s.lines[row+n:])
	for i := s.rows - n; i < s.rows; i++ {
		s.lines[i] = s.blankLine()
	}
}

// InsertCells inserts n blank cells at (row, col), shifting the rest of
// the row right; cells pushed past the edge are discarded.
func (s *Screen) InsertCells(row, col, n int) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols || n < 1 {
		return
	}
	if n > s.cols-col {
		n = s.cols - col
	}
	cells := s.lines[row].Cells
	copy(cells[col+n:], cells[col:s.cols-n])
	blank := s.blankCell()
	for i := col; i < col+n; i++ {
		cells[i] = blank
	}
}

// DeleteCells removes n cells at (row, col), shifting the rest of the
// row left and padding the end with blanks. The row length is preserved.
func (s *Screen) DeleteCells(row, col, n int) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols || n < 1 {
		return
	}
	if n > s.cols-col {
		n = s.cols - col
	}
	cells := s.lines[row].Cells
	copy(cells[col:], cells[col+n:])
	blank := s.blankCell()
	for i := s.cols - n; i < s.cols; i++ {
		cells[i] = blank
	}
}

// ClearLineRange blanks cells [from, to] of a row, inclusive.
func (s *Screen) ClearLineRange(row, from, to int) {
	if row < 0 || row >= s.rows {
		return
	}
	if from < 0 {
		from = 0
	}
	if to >= s.cols {
		to = s.cols - 1
	}
	blank := s.blankCell()
	for i := from; i <= to; i++ {
		s.lines[row].Cells[i] = blank
	}
}

// ClearRows blanks entire rows [from, to], inclusive.
func (s *Screen) ClearRows(from, to int) {
	if from < 0 {
		from = 0
	}
	if to >= s.rows {
		to = s.rows - 1
	}
	for i := from; i <= to; i++ {
		s.lines[i] = s.blankLine()
	}
}

// --- Alternate screen ---

// EnterAlt swaps in a fresh alternate screen, saving the primary grid
// and cursor. A second enter while already active is ignored.
func (s *Screen) EnterAlt() {
	if s.altActive {
		return
	}
	s.altActive = true
	s.mainLines = s.lines
	s.mainCursor = s.cursor
	s.lines = s.blankGrid()
	s.SetCursorPos(0, 0)
}

// LeaveAlt restores the primary grid exactly as it was. restoreCursor
// additionally restores the primary cursor position (mode 1049).
func (s *Screen) LeaveAlt(restoreCursor bool) {
	if !s.altActive {
		return
	}
	s.altActive = false
	s.lines = s.mainLines
	s.mainLines = nil
	if restoreCursor {
		s.cursor.Row = s.mainCursor.Row
		s.cursor.Col = s.mainCursor.Col
	}
	s.SetCursorPos(s.cursor.Row, s.cursor.Col)
}

// --- Resize ---

// Resize re-establishes the line-length invariant for the new geometry,
// clamping the cursor. When the primary screen shrinks vertically the
// excess top lines move into scrollback.
func (s *Screen) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cols == s.cols && rows == s.rows {
		return
	}

	resizeGrid := func(lines []Line, oldRows int, primary bool) []Line {
		// Width first: truncate or pad every line to the new column count.
		for i := range lines {
			lines[i].Cells = resizeCells(lines[i].Cells, cols, s.blankCell())
		}
		// Height: shrink from the top, grow at the bottom.
		if rows < oldRows {
			excess := oldRows - rows
			for i := 0; i < excess; i++ {
				if primary && !lineBlank(lines[i]) {
					s.pushScrollback(lines[i])
				}
			}
			lines = lines[excess:]
		}
		for len(lines) < rows {
			lines = append(lines, Line{Cells: resizeCells(nil, cols, s.blankCell())})
		}
		return lines
	}

	oldRows := s.rows
	s.cols, s.rows = cols, rows

	s.lines = resizeGrid(s.lines, oldRows, !s.altActive)
	if s.altActive && s.mainLines != nil {
		s.mainLines = resizeGrid(s.mainLines, oldRows, true)
	}
	for i := range s.scrollback {
		s.scrollback[i].Cells = resizeCells(s.scrollback[i].Cells, cols, s.blankCell())
	}

	if rows < oldRows {
		s.cursor.Row -= oldRows - rows
	}
	s.SetCursorPos(s.cursor.Row, s.cursor.Col)
	s.mainCursor.Row, s.mainCursor.Col = clamp(s.mainCursor.Row, rows), clamp(s.mainCursor.Col, cols)
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v >= limit {
		return limit - 1
	}
	return v
}

func resizeCells(cells []Cell, cols int, blank Cell) []Cell {
	if len(cells) > cols {
		return cells[:cols]
	}
	for len(cells) < cols {
		cells = append(cells, blank)
	}
	return cells
}

// --- Read-only snapshots ---

// Grid returns a row-major copy of the active grid.
func (s *Screen) Grid() [][]Cell {
	grid := make([][]Cell, s.rows)
	for y := range grid {
		grid[y] = make([]Cell, s.cols)
		copy(grid[y], s.lines[y].Cells)
	}
	return grid
}

// HistoryLines returns scrollback followed by the active primary lines,
// for full-history rendering. While the alternate screen is active the
// saved primary grid is used.
func (s *Screen) HistoryLines() []Line {
	active := s.lines
	if s.altActive {
		active = s.mainLines
	}
	out := make([]Line, 0, len(s.scrollback)+len(active))
	out = append(out, s.scrollback...)
	out = append(out, active...)
	return out
}
