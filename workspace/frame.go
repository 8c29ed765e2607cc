// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/frame.go
// Summary: Abstract frame emitted by the controller, consumed by a driver.
// Notes: The frame is plain data. Only the driver touches the real screen,
// which keeps the controller testable without a terminal.

package workspace

import "github.com/framegrace/worktop/term"

// Frame is one complete render of the workspace.
type Frame struct {
	// Rows is the terminal viewport, top to bottom.
	Rows [][]term.Cell
	// Cursor is the terminal cursor in viewport coordinates.
	Cursor CursorState
	// Bar holds the action bar entries, left to right.
	Bar []BarEntry
	// Status is the transient message shown in the bar.
	Status string
	// Overlay is nil in normal mode.
	Overlay *Overlay
}

// CursorState is the visible text cursor.
type CursorState struct {
	X, Y    int
	Visible bool
}

// BarEntry is one action on the bar.
type BarEntry struct {
	ID     string
	Label  string
	Key    string
	Active bool // the action's command is currently running
}

// Overlay is a modal panel over the terminal view.
type Overlay struct {
	Title    string
	Lines    []Line
	Selected int // highlighted line, -1 for none
	// Input is the palette's editable line; empty means no input row.
	Input       string
	InputCursor int
	ShowInput   bool
	// Prompt is a one-line question shown under the list (conflicts).
	Prompt string
}

// Span is a run of styled text in an overlay line.
type Span struct {
	Text string
	FG   term.Color
	Bold bool
}

// Line is a sequence of spans.
type Line []Span

// plain builds an unstyled line.
func plain(text string) Line {
	return Line{{Text: text}}
}

// Text flattens a line for measurement and tests.
func (l Line) Text() string {
	var out string
	for _, s := range l {
		out += s.Text
	}
	return out
}
