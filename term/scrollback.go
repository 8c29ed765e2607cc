// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/scrollback.go
// Summary: Bounded FIFO of rows scrolled off the primary grid.

package term

// Scrollback retains rows that scrolled off the top of the primary grid.
// Rows are stored in chronological order: index 0 is the oldest row,
// Len()-1 the most recently pushed one. Capacity is fixed; when exceeded
// the oldest rows are discarded. The live grid is never evicted.
type Scrollback struct {
	rows    [][]Cell
	maxRows int
}

// DefaultScrollbackRows bounds history when no explicit ceiling is configured.
const DefaultScrollbackRows = 2000

// NewScrollback creates a scrollback buffer holding at most maxRows rows.
func NewScrollback(maxRows int) *Scrollback {
	if maxRows <= 0 {
		maxRows = DefaultScrollbackRows
	}
	return &Scrollback{
		rows:    make([][]Cell, 0, min(maxRows, 256)),
		maxRows: maxRows,
	}
}

func (s *Scrollback) Len() int     { return len(s.rows) }
func (s *Scrollback) MaxRows() int { return s.maxRows }

// Row returns the row at the given index, or nil if out of bounds.
// The returned slice is owned by the scrollback; callers must not mutate it.
func (s *Scrollback) Row(index int) []Cell {
	if index < 0 || index >= len(s.rows) {
		return nil
	}
	return s.rows[index]
}

// Push appends a row, evicting the oldest rows when over capacity.
func (s *Scrollback) Push(row []Cell) {
	s.rows = append(s.rows, row)
	if len(s.rows) > s.maxRows {
		excess := len(s.rows) - s.maxRows
		for i := 0; i < excess; i++ {
			s.rows[i] = nil
		}
		s.rows = s.rows[excess:]
	}
}

// LastN returns the last n rows (or fewer if history is smaller).
func (s *Scrollback) LastN(n int) [][]Cell {
	if n <= 0 {
		return nil
	}
	start := len(s.rows) - n
	if start < 0 {
		start = 0
	}
	return s.rows[start:]
}

// Clear drops all retained rows.
func (s *Scrollback) Clear() {
	for i := range s.rows {
		s.rows[i] = nil
	}
	s.rows = s.rows[:0]
}
