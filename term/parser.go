// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser.go
// Summary: Streaming ANSI/VT escape-sequence parser feeding a VTerm.
// Usage: Feed raw pty output to Parse in arbitrary chunks.
// Notes: Malformed or unknown sequences drop back to ground state silently;
// the stream itself is never treated as an error.

package term

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateCSI
	stateOSC
	stateCharset
)

// Parser decodes a byte stream of terminal output and drives a VTerm.
// Sequences may arrive split across Parse calls at any byte boundary,
// including mid-rune.
type Parser struct {
	vt    *VTerm
	state parserState

	params   []int
	paramBuf strings.Builder
	private  bool

	oscBuf strings.Builder

	// pending holds an incomplete UTF-8 sequence between Parse calls.
	pending []byte
}

// NewParser creates a parser bound to a VTerm.
func NewParser(vt *VTerm) *Parser {
	return &Parser{vt: vt, pending: make([]byte, 0, utf8.UTFMax)}
}

// VTerm returns the terminal this parser drives.
func (p *Parser) VTerm() *VTerm { return p.vt }

// Parse consumes a chunk of output. It never fails; bytes that do not form
// a recognizable sequence are dropped or rendered as the replacement rune.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		if len(p.pending) > 0 {
			p.pending = append(p.pending, b)
			if utf8.FullRune(p.pending) {
				r, _ := utf8.DecodeRune(p.pending)
				p.pending = p.pending[:0]
				p.advance(r)
			} else if len(p.pending) >= utf8.UTFMax {
				p.pending = p.pending[:0]
				p.advance(utf8.RuneError)
			}
			continue
		}
		if b < utf8.RuneSelf {
			p.advance(rune(b))
			continue
		}
		p.pending = append(p.pending, b)
		if utf8.FullRune(p.pending) {
			r, _ := utf8.DecodeRune(p.pending)
			p.pending = p.pending[:0]
			p.advance(r)
		}
	}
}

func (p *Parser) advance(r rune) {
	switch p.state {
	case stateGround:
		p.parseGround(r)
	case stateEscape:
		p.parseEscape(r)
	case stateCSI:
		p.parseCSI(r)
	case stateOSC:
		p.parseOSC(r)
	case stateCharset:
		// G0/G1 designation; the charset byte itself is all we skip.
		p.state = stateGround
	}
}

func (p *Parser) parseGround(r rune) {
	switch r {
	case 0x1b:
		p.state = stateEscape
	case '\n', 0x0b, 0x0c:
		p.vt.LineFeed()
	case '\r':
		p.vt.CarriageReturn()
	case '\b':
		p.vt.Backspace()
	case '\t':
		p.vt.Tab()
	case 0x07:
		// BEL; no audible bell to ring.
	case 0x0e, 0x0f:
		// SI/SO shift codes, ignored.
	default:
		if r >= ' ' {
			p.vt.placeChar(r)
		}
	}
}

func (p *Parser) parseEscape(r rune) {
	switch r {
	case '[':
		p.startCSI()
	case ']':
		p.oscBuf.Reset()
		p.state = stateOSC
	case '(', ')', '*', '+', '#':
		// Charset designations and ESC # line attributes carry exactly
		// one more byte; skip it.
		p.state = stateCharset
	case 'D': // IND
		p.vt.LineFeed()
		p.state = stateGround
	case 'E': // NEL
		p.vt.CarriageReturn()
		p.vt.LineFeed()
		p.state = stateGround
	case 'M': // RI
		p.vt.ReverseIndex()
		p.state = stateGround
	case 'H': // HTS
		p.vt.SetTabStop()
		p.state = stateGround
	case '7':
		p.vt.SaveCursor()
		p.state = stateGround
	case '8':
		p.vt.RestoreCursor()
		p.state = stateGround
	case 'c': // RIS
		p.vt.Reset()
		p.state = stateGround
	case '=', '>':
		// Keypad modes; nothing depends on them.
		p.state = stateGround
	case '\\': // stray ST
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) startCSI() {
	p.params = p.params[:0]
	p.paramBuf.Reset()
	p.private = false
	p.state = stateCSI
}

func (p *Parser) parseCSI(r rune) {
	switch {
	case r >= '0' && r <= '9':
		p.paramBuf.WriteRune(r)
	case r == ';':
		p.pushParam()
	case r == '?':
		p.private = true
	case r == 0x1b:
		// Aborted sequence; the new escape starts fresh.
		p.state = stateEscape
	case r == 0x18 || r == 0x1a: // CAN, SUB
		p.state = stateGround
	case r < ' ':
		// Embedded control bytes execute without breaking the sequence.
		p.parseGround(r)
	case r >= ' ' && r <= '/':
		// Intermediates collected but unused; the sequences that carry
		// them are outside this emulator's repertoire.
	case r >= '@' && r <= '~':
		p.pushParam()
		p.dispatchCSI(r)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) pushParam() {
	if p.paramBuf.Len() == 0 {
		p.params = append(p.params, 0)
		return
	}
	n, err := strconv.Atoi(p.paramBuf.String())
	if err != nil {
		n = 0
	}
	p.params = append(p.params, n)
	p.paramBuf.Reset()
}

// param returns the i-th parameter, or def when absent or zero.
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

func (p *Parser) dispatchCSI(final rune) {
	v := p.vt
	if p.private {
		switch final {
		case 'h', 'l':
			for _, mode := range p.params {
				v.setPrivateMode(mode, final == 'h')
			}
		}
		return
	}

	switch final {
	case 'A':
		v.CursorUp(p.param(0, 1))
	case 'B', 'e':
		v.CursorDown(p.param(0, 1))
	case 'C', 'a':
		v.CursorForward(p.param(0, 1))
	case 'D':
		v.CursorBack(p.param(0, 1))
	case 'E': // CNL
		v.CursorDown(p.param(0, 1))
		v.CarriageReturn()
	case 'F': // CPL
		v.CursorUp(p.param(0, 1))
		v.CarriageReturn()
	case 'G': // CHA
		v.SetCursorPos(v.cursorY, p.param(0, 1)-1)
	case 'H', 'f': // CUP, HVP
		v.SetCursorPos(p.param(0, 1)-1, p.param(1, 1)-1)
	case 'd': // VPA
		v.SetCursorPos(p.param(0, 1)-1, v.cursorX)
	case 'J':
		v.EraseInDisplay(p.param(0, 0))
	case 'K':
		v.EraseInLine(p.param(0, 0))
	case 'L':
		v.InsertLines(p.param(0, 1))
	case 'M':
		v.DeleteLines(p.param(0, 1))
	case '@':
		v.InsertChars(p.param(0, 1))
	case 'P':
		v.DeleteChars(p.param(0, 1))
	case 'X':
		v.EraseChars(p.param(0, 1))
	case 'S':
		v.ScrollUp(p.param(0, 1))
	case 'T':
		v.ScrollDown(p.param(0, 1))
	case 'r': // DECSTBM
		v.SetScrollRegion(p.param(0, 1)-1, p.param(1, v.height)-1)
	case 's':
		v.SaveCursor()
	case 'u':
		v.RestoreCursor()
	case 'm':
		v.handleSGR(p.params)
	case 'n':
		if p.param(0, 0) == 6 {
			v.reportCursorPosition()
		}
	case 'g':
		v.ClearTabStop(p.param(0, 0))
	case 'c': // DA
		if v.WriteToPty != nil {
			v.WriteToPty([]byte("\x1b[?6c"))
		}
	}
}

func (p *Parser) parseOSC(r rune) {
	switch r {
	case 0x07: // BEL terminator
		p.dispatchOSC()
		p.state = stateGround
	case 0x1b:
		// Likely ESC \ (ST). Dispatch now; the trailing backslash falls
		// through the escape state harmlessly.
		p.dispatchOSC()
		p.state = stateEscape
	default:
		p.oscBuf.WriteRune(r)
	}
}

func (p *Parser) dispatchOSC() {
	s := p.oscBuf.String()
	p.oscBuf.Reset()
	cmd, rest, found := strings.Cut(s, ";")
	if !found {
		return
	}
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return
	}
	switch n {
	case 0, 2: // icon name + window title / window title
		p.vt.SetTitle(rest)
	}
}
