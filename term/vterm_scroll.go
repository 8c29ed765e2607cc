// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_scroll.go
// Summary: Scroll region handling, line feeds and scrollback capture.

package term

// SetScrollRegion applies DECSTBM. Rows are 0-based here; callers convert
// from the 1-based wire values. An invalid region resets to the full screen.
func (v *VTerm) SetScrollRegion(top, bottom int) {
	if top < 0 || bottom >= v.height || top >= bottom {
		v.marginTop = 0
		v.marginBottom = v.height - 1
	} else {
		v.marginTop = top
		v.marginBottom = bottom
	}
	// DECSTBM homes the cursor.
	v.SetCursorPos(0, 0)
}

// ScrollRegion returns the current margins (inclusive, 0-based).
func (v *VTerm) ScrollRegion() (top, bottom int) {
	return v.marginTop, v.marginBottom
}

// LineFeed moves the cursor down one row, scrolling the region when the
// cursor sits on the bottom margin.
func (v *VTerm) LineFeed() {
	if v.cursorY == v.marginBottom {
		v.ScrollUp(1)
		return
	}
	if v.cursorY < v.height-1 {
		v.cursorY++
	}
}

// ReverseIndex (RI) moves the cursor up one row, scrolling the region down
// when the cursor sits on the top margin.
func (v *VTerm) ReverseIndex() {
	if v.cursorY == v.marginTop {
		v.ScrollDown(1)
		return
	}
	if v.cursorY > 0 {
		v.cursorY--
	}
}

// ScrollUp shifts the scroll region up by n rows. Rows leaving the top of a
// full-screen region on the primary grid are pushed into scrollback; partial
// regions and the alternate screen discard them. Vacated rows at the bottom
// are cleared with the current background.
func (v *VTerm) ScrollUp(n int) {
	if n < 1 {
		n = 1
	}
	region := v.marginBottom - v.marginTop + 1
	if n > region {
		n = region
	}
	capture := !v.onAlt && v.marginTop == 0 && v.marginBottom == v.height-1
	for i := 0; i < n; i++ {
		if capture {
			saved := make([]Cell, v.width)
			copy(saved, v.grid[v.marginTop])
			v.history.Push(saved)
		}
		copy(v.grid[v.marginTop:v.marginBottom], v.grid[v.marginTop+1:v.marginBottom+1])
		v.grid[v.marginBottom] = v.blankRow()
	}
}

// ScrollDown shifts the scroll region down by n rows, clearing vacated rows
// at the top. Nothing enters scrollback.
func (v *VTerm) ScrollDown(n int) {
	if n < 1 {
		n = 1
	}
	region := v.marginBottom - v.marginTop + 1
	if n > region {
		n = region
	}
	for i := 0; i < n; i++ {
		copy(v.grid[v.marginTop+1:v.marginBottom+1], v.grid[v.marginTop:v.marginBottom])
		// The shifted-down copy leaves the top row aliased twice.
		v.grid[v.marginTop] = v.blankRow()
	}
}

// InsertLines (IL) inserts n blank rows at the cursor, pushing rows below it
// toward the bottom margin. No-op outside the scroll region.
func (v *VTerm) InsertLines(n int) {
	if v.cursorY < v.marginTop || v.cursorY > v.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	savedTop := v.marginTop
	v.marginTop = v.cursorY
	v.ScrollDown(n)
	v.marginTop = savedTop
	v.cursorX = 0
}

// DeleteLines (DL) removes n rows at the cursor, pulling rows up from the
// bottom margin. No-op outside the scroll region.
func (v *VTerm) DeleteLines(n int) {
	if v.cursorY < v.marginTop || v.cursorY > v.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	savedTop := v.marginTop
	v.marginTop = v.cursorY
	for i := 0; i < min(n, v.marginBottom-v.marginTop+1); i++ {
		copy(v.grid[v.marginTop:v.marginBottom], v.grid[v.marginTop+1:v.marginBottom+1])
		v.grid[v.marginBottom] = v.blankRow()
	}
	v.marginTop = savedTop
	v.cursorX = 0
}

func (v *VTerm) blankRow() []Cell {
	row := make([]Cell, v.width)
	for x := range row {
		row[x] = blankCell(v.currentFG, v.currentBG)
	}
	return row
}
