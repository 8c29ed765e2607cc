// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm.go
// Summary: Virtual terminal state: grids, cursor, margins, glyph placement.
// Usage: Mutated exclusively by the escape-sequence parser; read by renderers.
// Notes: Holds a primary grid with scrollback and an independent alternate grid.

package term

import (
	"fmt"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// placeholderRune is rendered for glyphs the terminal cannot display.
const placeholderRune = '�'

// VTerm holds the state of a virtual terminal.
type VTerm struct {
	width, height int

	// Active grid. Either the primary screen or the alternate screen;
	// the inactive one is parked in `inactive`.
	grid     [][]Cell
	inactive [][]Cell
	onAlt    bool

	cursorX, cursorY           int
	savedCursorX, savedCursorY int
	altSavedX, altSavedY       int
	wrapNext                   bool
	cursorVisible              bool

	currentFG, currentBG Color
	currentAttr          Attribute
	defaultFG, defaultBG Color

	marginTop, marginBottom int
	tabStops                map[int]bool

	autoWrapMode   bool
	appCursorKeys  bool
	bracketedPaste bool

	history *Scrollback

	// TitleChanged is invoked when the child sets the window title (OSC 0/2).
	TitleChanged func(string)
	// WriteToPty writes response bytes back to the child (DSR replies).
	WriteToPty func([]byte)
}

// Option configures a VTerm at construction time.
type Option func(*VTerm)

// WithScrollback bounds the number of history rows retained.
func WithScrollback(maxRows int) Option {
	return func(v *VTerm) { v.history = NewScrollback(maxRows) }
}

// WithTitleChangeHandler sets a callback for OSC title changes.
func WithTitleChangeHandler(handler func(string)) Option {
	return func(v *VTerm) { v.TitleChanged = handler }
}

// WithPtyWriter sets a callback for writing response data back to the pty.
func WithPtyWriter(writer func([]byte)) Option {
	return func(v *VTerm) { v.WriteToPty = writer }
}

// NewVTerm creates and initializes a new virtual terminal.
func NewVTerm(width, height int, opts ...Option) *VTerm {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	v := &VTerm{
		width:         width,
		height:        height,
		currentFG:     DefaultFG,
		currentBG:     DefaultBG,
		defaultFG:     DefaultFG,
		defaultBG:     DefaultBG,
		tabStops:      make(map[int]bool),
		cursorVisible: true,
		autoWrapMode:  true,
		marginTop:     0,
		marginBottom:  height - 1,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.history == nil {
		v.history = NewScrollback(DefaultScrollbackRows)
	}
	v.grid = newGrid(width, height, v.defaultFG, v.defaultBG)
	v.inactive = newGrid(width, height, v.defaultFG, v.defaultBG)
	for i := 0; i < width; i++ {
		if i%8 == 0 {
			v.tabStops[i] = true
		}
	}
	return v
}

func newGrid(width, height int, fg, bg Color) [][]Cell {
	g := make([][]Cell, height)
	for y := range g {
		g[y] = make([]Cell, width)
		for x := range g[y] {
			g[y][x] = blankCell(fg, bg)
		}
	}
	return g
}

func (v *VTerm) Width() int  { return v.width }
func (v *VTerm) Height() int { return v.height }

// Grid exposes the active grid for rendering. Callers must not mutate it.
func (v *VTerm) Grid() [][]Cell { return v.grid }

// History exposes the primary screen scrollback.
func (v *VTerm) History() *Scrollback { return v.history }

func (v *VTerm) Cursor() (x, y int)            { return v.cursorX, v.cursorY }
func (v *VTerm) CursorVisible() bool           { return v.cursorVisible }
func (v *VTerm) SetCursorVisible(visible bool) { v.cursorVisible = visible }

// AppCursorKeys reports whether the child requested application cursor keys.
func (v *VTerm) AppCursorKeys() bool { return v.appCursorKeys }

// BracketedPaste reports whether the child enabled bracketed paste mode.
// Pass-through flag only; it has no rendering effect.
func (v *VTerm) BracketedPaste() bool { return v.bracketedPaste }

// AltScreen reports whether the alternate screen is active.
func (v *VTerm) AltScreen() bool { return v.onAlt }

// Write stores a cell at the given position. Out-of-bounds writes are dropped.
func (v *VTerm) Write(c Cell, row, col int) {
	if row < 0 || row >= v.height || col < 0 || col >= v.width {
		return
	}
	v.grid[row][col] = c
}

// Cell returns a copy of the cell at the given position.
func (v *VTerm) Cell(row, col int) Cell {
	if row < 0 || row >= v.height || col < 0 || col >= v.width {
		return blankCell(v.defaultFG, v.defaultBG)
	}
	return v.grid[row][col]
}

// Resize truncates or pads both grids to the new dimensions. Scrollback is
// left untouched; only the live grids change shape. On narrowing, the left
// columns of every row are preserved and the rest discarded, never wrapped.
func (v *VTerm) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	if width == v.width && height == v.height {
		return
	}

	v.grid = resizeGrid(v.grid, width, height, v.defaultFG, v.defaultBG)
	v.inactive = resizeGrid(v.inactive, width, height, v.defaultFG, v.defaultBG)
	v.width = width
	v.height = height

	// Margins reset to the full screen; a stale region from the old
	// geometry is worse than none.
	v.marginTop = 0
	v.marginBottom = height - 1

	v.SetCursorPos(v.cursorY, v.cursorX)
}

func resizeGrid(old [][]Cell, width, height int, fg, bg Color) [][]Cell {
	next := newGrid(width, height, fg, bg)
	rows := min(len(old), height)
	for y := 0; y < rows; y++ {
		cols := min(len(old[y]), width)
		copy(next[y][:cols], old[y][:cols])
	}
	return next
}

// Viewport returns the rows to render for the given scroll offset.
// Offset 0 is the live grid; positive offsets walk back into scrollback.
// The alternate screen has no scrollback, so the offset is ignored there.
func (v *VTerm) Viewport(offset int) [][]Cell {
	if offset < 0 {
		offset = 0
	}
	if v.onAlt {
		offset = 0
	}
	if offset > v.history.Len() {
		offset = v.history.Len()
	}

	rows := make([][]Cell, 0, v.height)
	if offset > 0 {
		fromHistory := min(offset, v.height)
		start := v.history.Len() - offset
		for i := 0; i < fromHistory; i++ {
			rows = append(rows, v.history.Row(start+i))
		}
	}
	for y := 0; y < v.height && len(rows) < v.height; y++ {
		rows = append(rows, v.grid[y])
	}
	return rows
}

// placeChar writes a glyph at the cursor using the pending style and
// advances the cursor, honoring deferred wrap at the right edge.
func (v *VTerm) placeChar(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and other zero-width glyphs are absorbed.
		return
	}
	if !unicode.IsPrint(r) {
		r = placeholderRune
		w = 1
	}

	if v.wrapNext {
		if v.autoWrapMode {
			v.cursorX = 0
			v.LineFeed()
		}
		v.wrapNext = false
	}

	// A wide glyph that does not fit at the end of the line wraps early.
	if w == 2 && v.cursorX == v.width-1 && v.autoWrapMode {
		v.grid[v.cursorY][v.cursorX] = blankCell(v.currentFG, v.currentBG)
		v.cursorX = 0
		v.LineFeed()
	}

	v.grid[v.cursorY][v.cursorX] = Cell{
		Rune: r,
		FG:   v.currentFG,
		BG:   v.currentBG,
		Attr: v.currentAttr,
		Wide: w == 2,
	}
	if w == 2 && v.cursorX+1 < v.width {
		// Spacer cell shadowed by the wide glyph.
		v.grid[v.cursorY][v.cursorX+1] = blankCell(v.currentFG, v.currentBG)
	}

	advance := w
	if v.cursorX+advance >= v.width {
		v.cursorX = v.width - 1
		if v.autoWrapMode {
			v.wrapNext = true
		}
	} else {
		v.cursorX += advance
	}
}

// Reset restores the terminal to its initial state (RIS).
func (v *VTerm) Reset() {
	v.currentFG = v.defaultFG
	v.currentBG = v.defaultBG
	v.currentAttr = 0
	v.marginTop = 0
	v.marginBottom = v.height - 1
	v.autoWrapMode = true
	v.appCursorKeys = false
	v.bracketedPaste = false
	v.cursorVisible = true
	v.wrapNext = false
	if v.onAlt {
		v.exitAltScreen()
	}
	v.ClearScreen()
	v.SetCursorPos(0, 0)
	v.tabStops = make(map[int]bool)
	for i := 0; i < v.width; i++ {
		if i%8 == 0 {
			v.tabStops[i] = true
		}
	}
}

// SetTitle forwards a title change to the registered handler.
func (v *VTerm) SetTitle(title string) {
	if v.TitleChanged != nil {
		v.TitleChanged(title)
	}
}

// reportCursorPosition answers DSR 6 with the 1-based cursor position.
func (v *VTerm) reportCursorPosition() {
	if v.WriteToPty == nil {
		return
	}
	v.WriteToPty([]byte(fmt.Sprintf("\x1b[%d;%dR", v.cursorY+1, v.cursorX+1)))
}
