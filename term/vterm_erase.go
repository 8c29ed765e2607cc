// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_erase.go
// Summary: Erase and in-line edit operations (ED/EL/ECH/DCH/ICH).

package term

// ClearScreen blanks the entire active grid with the current background.
func (v *VTerm) ClearScreen() {
	for y := 0; y < v.height; y++ {
		v.clearLineRange(y, 0, v.width-1)
	}
}

// EraseInDisplay handles ED. Mode 0 erases cursor to end of screen, 1 start
// of screen to cursor, 2 the whole screen. Mode 3 additionally drops
// scrollback on the primary screen, matching xterm.
func (v *VTerm) EraseInDisplay(mode int) {
	switch mode {
	case 0:
		v.clearLineRange(v.cursorY, v.cursorX, v.width-1)
		for y := v.cursorY + 1; y < v.height; y++ {
			v.clearLineRange(y, 0, v.width-1)
		}
	case 1:
		v.clearLineRange(v.cursorY, 0, v.cursorX)
		for y := 0; y < v.cursorY; y++ {
			v.clearLineRange(y, 0, v.width-1)
		}
	case 2:
		v.ClearScreen()
	case 3:
		v.ClearScreen()
		if !v.onAlt {
			v.history.Clear()
		}
	}
}

// EraseInLine handles EL. Mode 0 erases cursor to end of line, 1 start of
// line to cursor, 2 the whole line.
func (v *VTerm) EraseInLine(mode int) {
	switch mode {
	case 0:
		v.clearLineRange(v.cursorY, v.cursorX, v.width-1)
	case 1:
		v.clearLineRange(v.cursorY, 0, v.cursorX)
	case 2:
		v.clearLineRange(v.cursorY, 0, v.width-1)
	}
}

// EraseChars (ECH) blanks n cells starting at the cursor without moving it.
func (v *VTerm) EraseChars(n int) {
	if n < 1 {
		n = 1
	}
	end := min(v.cursorX+n-1, v.width-1)
	v.clearLineRange(v.cursorY, v.cursorX, end)
}

// DeleteChars (DCH) removes n cells at the cursor, shifting the remainder of
// the line left and blanking the freed tail.
func (v *VTerm) DeleteChars(n int) {
	if n < 1 {
		n = 1
	}
	row := v.grid[v.cursorY]
	if v.cursorX+n > v.width {
		n = v.width - v.cursorX
	}
	copy(row[v.cursorX:], row[v.cursorX+n:])
	v.clearLineRange(v.cursorY, v.width-n, v.width-1)
}

// InsertChars (ICH) inserts n blank cells at the cursor, shifting the rest
// of the line right. Cells pushed past the right edge are lost.
func (v *VTerm) InsertChars(n int) {
	if n < 1 {
		n = 1
	}
	row := v.grid[v.cursorY]
	if v.cursorX+n > v.width {
		n = v.width - v.cursorX
	}
	copy(row[v.cursorX+n:], row[v.cursorX:v.width-n])
	v.clearLineRange(v.cursorY, v.cursorX, v.cursorX+n-1)
}

// clearLineRange blanks columns [from, to] of a row with the current colors.
func (v *VTerm) clearLineRange(row, from, to int) {
	if row < 0 || row >= v.height {
		return
	}
	from = clamp(from, 0, v.width-1)
	to = clamp(to, 0, v.width-1)
	for x := from; x <= to; x++ {
		v.grid[row][x] = blankCell(v.currentFG, v.currentBG)
	}
}
