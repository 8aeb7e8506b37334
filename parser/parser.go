// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: parser/parser.go
// Summary: ECMA-48 byte-stream state machine for VT escape sequences.
// Usage: Feed raw PTY output; parsed events are delivered to a Handler.
// Notes: Pure byte-in/event-out; no terminal semantics live here.

package parser

import (
	"math"
	"strconv"
	"strings"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateOSCString
	stateOSCEnd
)

// Handler receives the parsed event stream. Exactly one handler is
// registered per parser; events arrive in input order.
type Handler interface {
	// Text delivers a run of printable bytes (0x20-0x7E, 0x80-0xFF).
	Text(s string)
	// Control delivers a C0 control byte (excluding ESC).
	Control(c byte)
	// CSI delivers a complete control sequence. params always has at
	// least one entry; private reports a 0x3C-0x3F prefix byte.
	CSI(final byte, params []int, private bool)
	// OSC delivers an operating system command with its numeric selector
	// and the payload after the first semicolon.
	OSC(num int, data string)
	// Escape delivers a simple ESC-finalized sequence.
	Escape(final byte)
}

// Parser is the escape-sequence state machine. It accepts input in
// arbitrarily small chunks; the emitted event stream is identical
// regardless of chunk boundaries.
type Parser struct {
	state   state
	handler Handler

	text          []byte
	params        []int
	current       int
	private       bool
	intermediates []byte
	osc           []byte
}

// New creates a parser delivering events to h.
func New(h Handler) *Parser {
	return &Parser{
		handler:       h,
		text:          make([]byte, 0, 256),
		params:        make([]int, 0, 16),
		intermediates: make([]byte, 0, 4),
		osc:           make([]byte, 0, 128),
	}
}

// Reset returns the parser to Ground and clears all accumulators.
// Pending text is discarded, not flushed.
func (p *Parser) Reset() {
	p.state = stateGround
	p.text = p.text[:0]
	p.clearSequence()
	p.osc = p.osc[:0]
}

// Feed processes a chunk of bytes. Printable text accumulated at the end
// of the chunk stays pending until the next control byte or Flush call.
func (p *Parser) Feed(data []byte) {
	for _, c := range data {
		p.step(c)
	}
}

// Flush emits any pending text run. Callers invoke it after handing the
// parser a complete read batch so trailing text reaches the handler.
func (p *Parser) Flush() {
	if len(p.text) > 0 {
		p.handler.Text(string(p.text))
		p.text = p.text[:0]
	}
}

func (p *Parser) clearSequence() {
	p.params = p.params[:0]
	p.current = 0
	p.private = false
	p.intermediates = p.intermediates[:0]
}

func (p *Parser) step(c byte) {
	switch p.state {
	case stateGround:
		switch {
		case c == 0x1B:
			p.Flush()
			p.state = stateEscape
		case c <= 0x1F:
			p.Flush()
			p.handler.Control(c)
		case c == 0x7F:
			p.Flush()
			p.handler.Control(c)
		default:
			p.text = append(p.text, c)
		}

	case stateEscape:
		switch {
		case c == '[':
			p.state = stateCSIEntry
			p.clearSequence()
		case c == ']':
			p.state = stateOSCString
			p.osc = p.osc[:0]
		case c >= 0x20 && c <= 0x2F:
			p.intermediates = append(p.intermediates, c)
			p.state = stateEscapeIntermediate
		case c >= 0x30 && c <= 0x7E:
			p.handler.Escape(c)
			p.state = stateGround
		default:
			p.state = stateGround
		}

	case stateEscapeIntermediate:
		switch {
		case c >= 0x20 && c <= 0x2F:
			p.intermediates = append(p.intermediates, c)
		case c >= 0x30 && c <= 0x7E:
			p.handler.Escape(c)
			p.intermediates = p.intermediates[:0]
			p.state = stateGround
		default:
			p.intermediates = p.intermediates[:0]
			p.state = stateGround
		}

	case stateCSIEntry:
		if c >= 0x3C && c <= 0x3F {
			// Private-mode prefix is only meaningful at sequence entry.
			p.private = true
			p.state = stateCSIParam
			return
		}
		p.csiParamByte(c)

	case stateCSIParam:
		if c >= 0x3C && c <= 0x3F {
			// A prefix byte after parameters is malformed.
			p.state = stateCSIIgnore
			return
		}
		p.csiParamByte(c)

	case stateCSIIntermediate:
		switch {
		case c >= 0x20 && c <= 0x2F:
			p.intermediates = append(p.intermediates, c)
		case c >= 0x40 && c <= 0x7E:
			p.dispatchCSI(c)
		default:
			p.state = stateCSIIgnore
		}

	case stateCSIIgnore:
		// Recovery sink: swallow everything up to a final byte.
		if c >= 0x40 && c <= 0x7E {
			p.state = stateGround
		}

	case stateOSCString:
		switch {
		case c == 0x07:
			p.dispatchOSC()
			p.state = stateGround
		case c == 0x1B:
			p.state = stateOSCEnd
		case c >= 0x20 && c <= 0x7E:
			p.osc = append(p.osc, c)
		}

	case stateOSCEnd:
		if c == '\\' {
			p.dispatchOSC()
			p.state = stateGround
			return
		}
		// Not a String Terminator: the ESC was literal payload. Keep it
		// and reprocess the current byte as OSC data.
		p.osc = append(p.osc, 0x1B)
		p.state = stateOSCString
		p.step(c)
	}
}

// csiParamByte handles the shared parameter grammar of CsiEntry/CsiParam.
func (p *Parser) csiParamByte(c byte) {
	switch {
	case c >= '0' && c <= '9':
		d := int(c - '0')
		if p.current > (math.MaxInt-d)/10 {
			p.current = math.MaxInt // saturate, never overflow
		} else {
			p.current = p.current*10 + d
		}
		p.state = stateCSIParam
	case c == ';':
		p.params = append(p.params, p.current)
		p.current = 0
		p.state = stateCSIParam
	case c >= 0x20 && c <= 0x2F:
		p.intermediates = append(p.intermediates, c)
		p.state = stateCSIIntermediate
	case c >= 0x40 && c <= 0x7E:
		p.dispatchCSI(c)
	default:
		p.state = stateCSIIgnore
	}
}

func (p *Parser) dispatchCSI(final byte) {
	p.params = append(p.params, p.current)
	params := make([]int, len(p.params))
	copy(params, p.params)
	p.handler.CSI(final, params, p.private)
	p.clearSequence()
	p.state = stateGround
}

func (p *Parser) dispatchOSC() {
	data := string(p.osc)
	p.osc = p.osc[:0]

	selector, payload := data, ""
	if i := strings.IndexByte(data, ';'); i >= 0 {
		selector, payload = data[:i], data[i+1:]
	}
	num, err := strconv.Atoi(selector)
	if err != nil {
		return // unparsable command number: drop silently
	}
	p.handler.OSC(num, payload)
}
