// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelterm/main.go
// Summary: Full-screen terminal client over one session coordinator.
// Usage: texelterm [-shell PATH] [-verbose]
// Notes: Presentation layer only; it renders session snapshots and
//        forwards keys. All terminal semantics live in the libraries.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/framegrace/texelterm/config"
	"github.com/framegrace/texelterm/history"
	"github.com/framegrace/texelterm/pty"
	"github.com/framegrace/texelterm/session"
	"github.com/framegrace/texelterm/vterm"
)

func main() {
	shellFlag := flag.String("shell", "", "shell executable (overrides config)")
	verbose := flag.Bool("verbose", false, "enable debug logging to stderr")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "texelterm: stdin is not a terminal")
		os.Exit(1)
	}

	if *verbose {
		vterm.SetVerboseLogging(true)
		pty.SetVerboseLogging(true)
		history.SetVerboseLogging(true)
	}

	settings := config.Get()
	if err := config.Err(); err != nil {
		log.Printf("config: %v (using defaults)", err)
	}
	shell := settings.Shell
	if *shellFlag != "" {
		shell = *shellFlag
	}

	if err := run(shell, settings); err != nil {
		fmt.Fprintf(os.Stderr, "texelterm: %v\n", err)
		os.Exit(1)
	}
}

func run(shell string, settings config.Settings) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	cols, rows := screen.Size()

	var archive *history.Archive
	opts := []session.Option{
		session.WithScrollbackCap(settings.ScrollbackLines),
		session.WithDebounce(settings.Debounce()),
		session.WithBellHandler(func() { screen.Beep() }),
	}
	if settings.HistoryEnabled {
		path, err := settings.ArchivePath()
		if err != nil {
			return err
		}
		archive, err = history.Open(path)
		if err != nil {
			return fmt.Errorf("open history archive: %w", err)
		}
		defer archive.Close()
		opts = append(opts, session.WithEvictionHandler(func(l vterm.Line) {
			archive.Append(l.Text())
		}))
	}

	sess := session.New(cols, rows, opts...)
	defer sess.Close()

	if err := sess.Spawn(shell, settings.Env); err != nil {
		return err
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	palette := vterm.DefaultPalette()
	for {
		select {
		case <-sess.Done():
			return nil
		case <-sess.Refresh():
			draw(screen, sess.Snapshot(), palette)
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				w, h := e.Size()
				sess.Resize(w, h)
				screen.Sync()
			case *tcell.EventKey:
				handleKey(sess, e)
			}
		}
	}
}

// handleKey translates a tcell key event into a session keystroke.
func handleKey(sess *session.Coordinator, ev *tcell.EventKey) {
	var kev session.KeyEvent

	switch ev.Key() {
	case tcell.KeyEnter:
		kev = session.KeyEvent{Key: session.KeyReturn}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		kev = session.KeyEvent{Key: session.KeyDelete}
	case tcell.KeyTab:
		kev = session.KeyEvent{Key: session.KeyTab}
	case tcell.KeyEsc:
		kev = session.KeyEvent{Key: session.KeyEscape}
	case tcell.KeyUp:
		kev = session.KeyEvent{Key: session.KeyUp}
	case tcell.KeyDown:
		kev = session.KeyEvent{Key: session.KeyDown}
	case tcell.KeyRight:
		kev = session.KeyEvent{Key: session.KeyRight}
	case tcell.KeyLeft:
		kev = session.KeyEvent{Key: session.KeyLeft}
	case tcell.KeyHome:
		kev = session.KeyEvent{Key: session.KeyHome}
	case tcell.KeyEnd:
		kev = session.KeyEvent{Key: session.KeyEnd}
	case tcell.KeyPgUp:
		kev = session.KeyEvent{Key: session.KeyPageUp}
	case tcell.KeyPgDn:
		kev = session.KeyEvent{Key: session.KeyPageDown}
	case tcell.KeyRune:
		kev = session.KeyEvent{Key: session.KeyRune, Rune: ev.Rune()}
	default:
		// tcell reports Ctrl+letter as dedicated key codes 1-26.
		if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			kev = session.KeyEvent{
				Key:  session.KeyRune,
				Rune: rune('a' + int(k) - int(tcell.KeyCtrlA)),
				Ctrl: true,
			}
		} else {
			return
		}
	}
	sess.SendKey(kev)
}

// draw paints one snapshot onto the tcell screen.
func draw(screen tcell.Screen, snap session.Snapshot, palette *vterm.Palette) {
	for y := 0; y < snap.Rows && y < len(snap.Grid); y++ {
		for x := 0; x < snap.Cols && x < len(snap.Grid[y]); x++ {
			cell := snap.Grid[y][x]
			style := cellStyle(cell, palette)
			if snap.Cursor.Visible && y == snap.Cursor.Row && x == snap.Cursor.Col {
				style = style.Reverse(true)
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, style)
		}
	}
	screen.Show()
}

func cellStyle(c vterm.Cell, palette *vterm.Palette) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(mapColor(c.FG, palette)).
		Background(mapColor(c.BG, palette))
	a := c.Attr
	style = style.
		Bold(a&vterm.AttrBold != 0).
		Dim(a&vterm.AttrDim != 0).
		Italic(a&vterm.AttrItalic != 0).
		Underline(a&vterm.AttrUnderline != 0).
		Blink(a&vterm.AttrBlink != 0).
		Reverse(a&vterm.AttrReverse != 0).
		StrikeThrough(a&vterm.AttrStrikethrough != 0)
	if a&vterm.AttrHidden != 0 {
		style = style.Foreground(mapColor(c.BG, palette))
	}
	return style
}

// mapColor resolves a terminal color to a concrete tcell color; the
// host terminal supplies the defaults.
func mapColor(c vterm.Color, palette *vterm.Palette) tcell.Color {
	switch c.Mode {
	case vterm.ColorModeDefault:
		return tcell.ColorDefault
	case vterm.ColorModeStandard, vterm.ColorMode256:
		rgb := palette[c.Value]
		return tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B))
	case vterm.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.ColorDefault
}
