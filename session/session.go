// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session/session.go
// Summary: Session coordinator: one PTY manager + parser + terminal,
//          output debounced into the emulator, keys encoded out.
// Usage: New → Spawn → SendKey/Resize → Close. Snapshot gives the
//        presentation layer a read-only view.
// Notes: One mutex serializes emulator access against Snapshot. The
//        debounce is a display optimization only; semantics do not
//        depend on batch boundaries.

package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/framegrace/texelterm/parser"
	"github.com/framegrace/texelterm/pty"
	"github.com/framegrace/texelterm/vterm"
)

const defaultDebounce = 16 * time.Millisecond

// Snapshot is a read-only copy of the terminal state for rendering.
type Snapshot struct {
	Cols, Rows int
	Grid       [][]vterm.Cell
	Cursor     vterm.Cursor
	Title      string
	Running    bool
}

// Option configures a coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the output batching window.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithScrollbackCap forwards the cap to the terminal.
func WithScrollbackCap(n int) Option {
	return func(c *Coordinator) {
		c.termOpts = append(c.termOpts, vterm.WithScrollbackCap(n))
	}
}

// WithEvictionHandler receives scrollback lines as the cap pushes them
// out, letting an archive retain history beyond the in-memory window.
func WithEvictionHandler(fn func(vterm.Line)) Option {
	return func(c *Coordinator) {
		c.termOpts = append(c.termOpts, vterm.WithEvictionHandler(fn))
	}
}

// WithBellHandler forwards bell notifications.
func WithBellHandler(fn func()) Option {
	return func(c *Coordinator) {
		c.termOpts = append(c.termOpts, vterm.WithBellHandler(fn))
	}
}

// WithTitleHandler forwards title changes.
func WithTitleHandler(fn func(string)) Option {
	return func(c *Coordinator) {
		c.termOpts = append(c.termOpts, vterm.WithTitleHandler(fn))
	}
}

// Coordinator glues one child process to one terminal emulator.
type Coordinator struct {
	id       string
	debounce time.Duration
	termOpts []vterm.Option

	mu      sync.Mutex
	term    *vterm.VTerm
	par     *parser.Parser
	mgr     *pty.Manager
	pending []byte
	timer   *time.Timer
	closed  bool

	exitCode int
	exited   bool

	refresh chan struct{}
	done    chan struct{}
}

// New creates a coordinator with an emulator of the given size and an
// idle process manager. Spawn starts the child.
func New(cols, rows int, opts ...Option) *Coordinator {
	c := &Coordinator{
		id:       uuid.NewString(),
		debounce: defaultDebounce,
		exitCode: -1,
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.term = vterm.New(cols, rows, c.termOpts...)
	c.par = parser.New(c.term)
	c.mgr = pty.New(c.handleOutput, c.handleExit)
	return c
}

// ID returns the session's unique identifier.
func (c *Coordinator) ID() string { return c.id }

// Refresh signals after each applied output batch and on child exit.
// Sends are non-blocking; a slow consumer coalesces signals.
func (c *Coordinator) Refresh() <-chan struct{} { return c.refresh }

// Done is closed when the child process has exited.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// Spawn starts the child at the emulator's current size.
func (c *Coordinator) Spawn(executable string, env map[string]string) error {
	c.mu.Lock()
	cols, rows := c.term.Screen().Size()
	if c.exited {
		// Re-spawn on the same coordinator: fresh stream, fresh state.
		c.par.Reset()
		c.exited = false
		c.exitCode = -1
		c.done = make(chan struct{})
	}
	c.mu.Unlock()
	return c.mgr.Spawn(executable, env, uint16(rows), uint16(cols))
}

// Running reports whether the child process is active.
func (c *Coordinator) Running() bool { return c.mgr.Running() }

// ExitCode returns the last child's exit status, or -1 if none has
// exited yet or it died on a signal.
func (c *Coordinator) ExitCode() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitCode
}

// SendKey encodes and writes one keystroke to the child.
func (c *Coordinator) SendKey(ev KeyEvent) error {
	b := Encode(ev)
	if len(b) == 0 {
		return nil
	}
	return c.mgr.Write(b)
}

// Write sends raw bytes to the child, for paste and similar bulk input.
func (c *Coordinator) Write(data []byte) error {
	return c.mgr.Write(data)
}

// Resize propagates a new grid size to the emulator and the child.
func (c *Coordinator) Resize(cols, rows int) {
	c.mu.Lock()
	c.term.Resize(cols, rows)
	c.mu.Unlock()
	c.mgr.Resize(uint16(rows), uint16(cols))
	c.notify()
}

// Snapshot copies the current screen state for rendering.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	cols, rows := c.term.Screen().Size()
	return Snapshot{
		Cols:    cols,
		Rows:    rows,
		Grid:    c.term.Screen().Grid(),
		Cursor:  c.term.Screen().Cursor(),
		Title:   c.term.Title(),
		Running: c.mgr.Running(),
	}
}

// HistoryLines returns scrollback plus active lines, oldest first.
func (c *Coordinator) HistoryLines() []vterm.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.term.Screen().HistoryLines()
}

// Close cancels any pending debounce and terminates the child. Safe to
// call more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = nil
	c.mu.Unlock()

	c.mgr.Terminate()
}

// handleOutput accumulates read-loop chunks and arms the debounce
// timer. Chunks are applied in arrival order when the timer fires.
func (c *Coordinator) handleOutput(chunk []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = append(c.pending, chunk...)
	if c.timer == nil {
		c.timer = time.AfterFunc(c.debounce, c.flushPending)
	}
}

func (c *Coordinator) flushPending() {
	c.mu.Lock()
	data := c.pending
	c.pending = nil
	c.timer = nil
	if c.closed || len(data) == 0 {
		c.mu.Unlock()
		return
	}
	c.par.Feed(data)
	c.par.Flush()
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) handleExit(code int) {
	c.mu.Lock()
	c.exitCode = code
	c.exited = true
	done := c.done
	c.mu.Unlock()
	close(done)
	c.notify()
}

func (c *Coordinator) notify() {
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}
