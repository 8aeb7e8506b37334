// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: pty/manager.go
// Summary: PTY process manager: spawn, read loop, write, resize, terminate.
// Usage: Owns the master descriptor and child pid for one session.
// Notes: A single mutex guards descriptor/pid/running state so terminate
//        never races the read loop into a double close.

package pty

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	creack "github.com/creack/pty"
)

var (
	// ErrSpawnFailed wraps OS-level failures to allocate the terminal
	// pair or exec the target. Fatal to that spawn attempt; no retry.
	ErrSpawnFailed = errors.New("pty: spawn failed")
	// ErrNotRunning is returned by Write with no active process. The
	// caller may spawn again.
	ErrNotRunning = errors.New("pty: no running process")
	// ErrWriteFailed wraps an OS write failure. It does not terminate
	// the session by itself.
	ErrWriteFailed = errors.New("pty: write failed")
)

const gracefulExitWindow = 100 * time.Millisecond

// Manager spawns a child process attached to a pseudo-terminal, runs
// the read loop delivering its output, and accepts input bytes for its
// stdin. State moves NotStarted -> Running -> Terminated; Spawn after
// termination starts a fresh process.
type Manager struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	ptmx    *os.File
	running bool

	onOutput func([]byte)
	onExit   func(code int)
}

// New creates an idle manager. Output chunks are delivered to onOutput
// in strict read order; onExit fires once per child with its exit code,
// or -1 when the child was killed by a signal. Either callback may be
// nil.
func New(onOutput func([]byte), onExit func(code int)) *Manager {
	return &Manager{onOutput: onOutput, onExit: onExit}
}

// Running reports whether a child process is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Spawn allocates a pseudo-terminal pair and starts the executable
// attached to its slave side as the controlling terminal. The baseline
// environment (TERM, COLORTERM, LANG) can be overridden per entry.
func (m *Manager) Spawn(executable string, env map[string]string, rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return fmt.Errorf("%w: already running", ErrSpawnFailed)
	}

	cmd := exec.Command(executable)
	cmd.Env = buildEnv(env)

	ptmx, err := creack.StartWithSize(cmd, &creack.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	m.cmd = cmd
	m.ptmx = ptmx
	m.running = true

	go m.readLoop(ptmx, cmd)
	return nil
}

func buildEnv(overrides map[string]string) []string {
	base := map[string]string{
		"TERM":      "xterm-256color",
		"COLORTERM": "truecolor",
		"LANG":      "en_US.UTF-8",
	}
	if v, ok := os.LookupEnv("LANG"); ok {
		base["LANG"] = v
	}
	for k, v := range overrides {
		base[k] = v
	}

	env := os.Environ()
	out := env[:0:0]
	for _, kv := range env {
		keep := true
		for k := range base {
			if len(kv) > len(k) && kv[len(k)] == '=' && kv[:len(k)] == k {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, kv)
		}
	}
	for k, v := range base {
		out = append(out, k+"="+v)
	}
	return out
}

// readLoop runs until the child closes its side or the descriptor is
// torn down. The Go runtime poller supplies the retry-on-would-block
// behavior; a read error or EOF means the child is gone.
func (m *Manager) readLoop(ptmx *os.File, cmd *exec.Cmd) {
	buf := make([]byte, 4096)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 && m.onOutput != nil {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.onOutput(chunk)
		}
		if err != nil {
			// EOF and EIO both mean the slave side closed. Anything
			// else also ends the loop; the wait below reaps the child.
			if err != io.EOF && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				debugf("read loop error: %v", err)
			}
			break
		}
	}

	m.mu.Lock()
	if m.ptmx == ptmx {
		m.ptmx.Close()
		m.ptmx = nil
		m.running = false
	}
	m.mu.Unlock()

	code := waitExitCode(cmd)
	if m.onExit != nil {
		m.onExit(code)
	}
}

// waitExitCode reaps the child and decodes its status: the exit code
// for a normal exit, -1 when killed by a signal.
func waitExitCode(cmd *exec.Cmd) int {
	err := cmd.Wait()
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// Write sends bytes to the child's input.
func (m *Manager) Write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.ptmx == nil {
		return ErrNotRunning
	}
	if _, err := m.ptmx.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Resize updates the terminal's window size and signals the child so
// line-editing libraries re-wrap. A no-op with no active process.
func (m *Manager) Resize(rows, cols uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || m.ptmx == nil {
		return
	}
	if err := creack.Setsize(m.ptmx, &creack.Winsize{Rows: rows, Cols: cols}); err != nil {
		debugf("resize: %v", err)
		return
	}
	if m.cmd != nil && m.cmd.Process != nil {
		m.cmd.Process.Signal(syscall.SIGWINCH)
	}
}

// Terminate hangs up the child, waits briefly for a graceful exit, then
// kills it. Idempotent; a no-op when nothing is running.
func (m *Manager) Terminate() {
	m.mu.Lock()
	if !m.running || m.cmd == nil || m.cmd.Process == nil {
		m.mu.Unlock()
		return
	}
	proc := m.cmd.Process
	m.mu.Unlock()

	proc.Signal(syscall.SIGHUP)

	deadline := time.Now().Add(gracefulExitWindow)
	for time.Now().Before(deadline) {
		if !m.Running() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	if m.Running() {
		proc.Kill()
	}
	// The read loop observes the closed descriptor, reaps the child,
	// and fires the exit callback.
	for m.Running() {
		time.Sleep(5 * time.Millisecond)
	}
}
