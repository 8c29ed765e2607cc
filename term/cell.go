// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/cell.go
// Summary: Cell, color and attribute types for the terminal emulator.
// Usage: Consumed by the interpreter and by everything that renders grids.
// Notes: Keeps emulation concerns isolated from rendering.

package term

type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if a&AttrItalic != 0 {
		parts = append(parts, "italic")
	}
	if a&AttrUnderline != 0 {
		parts = append(parts, "underline")
	}
	if a&AttrReverse != 0 {
		parts = append(parts, "reverse")
	}
	result := parts[0]
	for i := 1; i < len(parts); i++ {
		result += "|" + parts[i]
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The basic 16 ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color represents a color in potentially different modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Holds the color code for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Holds the values for RGB mode
}

// Cell represents a single character cell on the screen.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attribute
	Wide bool // True if this cell contains a wide (2-column) character
}

var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// blankCell returns an empty cell carrying the given colors.
func blankCell(fg, bg Color) Cell {
	return Cell{Rune: ' ', FG: fg, BG: bg}
}
