// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_cursor.go
// Summary: Cursor movement, clamping, save/restore and tab stops.

package term

// SetCursorPos moves the cursor to an absolute position, clamped to the
// grid. Movement never wraps; past-the-edge targets stop at the edge.
func (v *VTerm) SetCursorPos(row, col int) {
	v.cursorY = clamp(row, 0, v.height-1)
	v.cursorX = clamp(col, 0, v.width-1)
	v.wrapNext = false
}

// MoveCursor moves the cursor relative to its current position, clamped.
func (v *VTerm) MoveCursor(dy, dx int) {
	v.SetCursorPos(v.cursorY+dy, v.cursorX+dx)
}

// CursorUp / CursorDown clamp against the scroll margins when the cursor
// starts inside the region, matching DEC behavior.
func (v *VTerm) CursorUp(n int) {
	if n < 1 {
		n = 1
	}
	top := 0
	if v.cursorY >= v.marginTop {
		top = v.marginTop
	}
	v.cursorY = clamp(v.cursorY-n, top, v.height-1)
	v.wrapNext = false
}

func (v *VTerm) CursorDown(n int) {
	if n < 1 {
		n = 1
	}
	bottom := v.height - 1
	if v.cursorY <= v.marginBottom {
		bottom = v.marginBottom
	}
	v.cursorY = clamp(v.cursorY+n, 0, bottom)
	v.wrapNext = false
}

func (v *VTerm) CursorForward(n int) {
	if n < 1 {
		n = 1
	}
	v.cursorX = clamp(v.cursorX+n, 0, v.width-1)
	v.wrapNext = false
}

func (v *VTerm) CursorBack(n int) {
	if n < 1 {
		n = 1
	}
	v.cursorX = clamp(v.cursorX-n, 0, v.width-1)
	v.wrapNext = false
}

// SaveCursor records the cursor position (DECSC / CSI s).
func (v *VTerm) SaveCursor() {
	v.savedCursorX, v.savedCursorY = v.cursorX, v.cursorY
}

// RestoreCursor returns to the saved position (DECRC / CSI u), clamped in
// case the grid shrank since the save.
func (v *VTerm) RestoreCursor() {
	v.SetCursorPos(v.savedCursorY, v.savedCursorX)
}

// Tab advances to the next tab stop, or the last column if none remain.
func (v *VTerm) Tab() {
	for x := v.cursorX + 1; x < v.width; x++ {
		if v.tabStops[x] {
			v.cursorX = x
			v.wrapNext = false
			return
		}
	}
	v.cursorX = v.width - 1
	v.wrapNext = false
}

// SetTabStop marks the current column as a tab stop (HTS).
func (v *VTerm) SetTabStop() {
	v.tabStops[v.cursorX] = true
}

// ClearTabStop handles TBC: mode 0 clears the current column, 3 clears all.
func (v *VTerm) ClearTabStop(mode int) {
	switch mode {
	case 0:
		delete(v.tabStops, v.cursorX)
	case 3:
		v.tabStops = make(map[int]bool)
	}
}

// CarriageReturn moves the cursor to column zero.
func (v *VTerm) CarriageReturn() {
	v.cursorX = 0
	v.wrapNext = false
}

// Backspace moves the cursor one column left, stopping at the margin.
func (v *VTerm) Backspace() {
	if v.wrapNext {
		v.wrapNext = false
		return
	}
	if v.cursorX > 0 {
		v.cursorX--
	}
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
