// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/driver_tcell.go
// Summary: tcell-backed screen driver rendering controller frames.
// Notes: The driver is stateless between frames apart from a style cache;
// everything it draws comes from the Frame.

package workspace

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/worktop/term"
)

// Driver abstracts the screen so the controller can be tested headless.
type Driver interface {
	Size() (width, height int)
	PollEvent() tcell.Event
	Render(f *Frame)
}

// TcellDriver renders frames onto a tcell screen.
type TcellDriver struct {
	screen tcell.Screen
	styles map[styleKey]tcell.Style
}

type styleKey struct {
	fg, bg term.Color
	attr   term.Attribute
}

// InitScreen creates and initializes the real terminal screen with paste
// support enabled.
func InitScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnablePaste()
	return screen, nil
}

// NewTcellDriver wraps an initialized screen.
func NewTcellDriver(screen tcell.Screen) *TcellDriver {
	return &TcellDriver{
		screen: screen,
		styles: make(map[styleKey]tcell.Style),
	}
}

func (d *TcellDriver) Size() (int, int)       { return d.screen.Size() }
func (d *TcellDriver) PollEvent() tcell.Event { return d.screen.PollEvent() }

// Fini restores the terminal.
func (d *TcellDriver) Fini() { d.screen.Fini() }

// Render draws one frame and flips it to the screen.
func (d *TcellDriver) Render(f *Frame) {
	width, height := d.screen.Size()
	d.screen.Clear()

	for y, row := range f.Rows {
		if y >= height-1 {
			break
		}
		skip := false
		for x, cell := range row {
			if x >= width {
				break
			}
			if skip {
				skip = false
				continue
			}
			r := cell.Rune
			if r == 0 {
				r = ' '
			}
			d.screen.SetContent(x, y, r, nil, d.styleFor(cell))
			if cell.Wide {
				skip = true
			}
		}
	}

	d.drawBar(f, width, height-1)

	if f.Overlay != nil {
		d.drawOverlay(f.Overlay, width, height)
	}

	switch {
	case f.Overlay != nil && f.Overlay.ShowInput:
		// drawOverlay already placed the cursor on the input row.
	case f.Cursor.Visible && f.Overlay == nil:
		d.screen.ShowCursor(f.Cursor.X, f.Cursor.Y)
	default:
		d.screen.HideCursor()
	}
	d.screen.Show()
}

var (
	barStyle       = tcell.StyleDefault.Reverse(true)
	barActiveStyle = tcell.StyleDefault.Reverse(true).Bold(true)
	borderStyle    = tcell.StyleDefault
	selectedStyle  = tcell.StyleDefault.Reverse(true)
)

func (d *TcellDriver) drawBar(f *Frame, width, y int) {
	for x := 0; x < width; x++ {
		d.screen.SetContent(x, y, ' ', nil, barStyle)
	}
	x := 0
	for _, entry := range f.Bar {
		text := " " + entry.Label
		if entry.Key != "" {
			text += ":" + entry.Key
		}
		text += " "
		style := barStyle
		if entry.Active {
			style = barActiveStyle
		}
		x = d.drawText(x, y, width, text, style)
		if x >= width {
			break
		}
	}
	if f.Status != "" {
		start := width - len([]rune(f.Status)) - 1
		if start < x+1 {
			start = x + 1
		}
		d.drawText(start, y, width, f.Status, barStyle)
	}
}

func (d *TcellDriver) drawOverlay(ov *Overlay, width, height int) {
	boxW := len([]rune(ov.Title)) + 4
	for _, line := range ov.Lines {
		if w := len([]rune(line.Text())) + 4; w > boxW {
			boxW = w
		}
	}
	if w := len([]rune(ov.Prompt)) + 4; w > boxW {
		boxW = w
	}
	if boxW > width-2 {
		boxW = width - 2
	}
	boxH := len(ov.Lines) + 2
	if ov.ShowInput {
		boxH += 2
	}
	if ov.Prompt != "" {
		boxH += 2
	}
	if boxH > height-2 {
		boxH = height - 2
	}
	left := (width - boxW) / 2
	top := (height - boxH) / 2

	for y := top; y < top+boxH; y++ {
		for x := left; x < left+boxW; x++ {
			r := ' '
			switch {
			case y == top && x == left:
				r = '┌'
			case y == top && x == left+boxW-1:
				r = '┐'
			case y == top+boxH-1 && x == left:
				r = '└'
			case y == top+boxH-1 && x == left+boxW-1:
				r = '┘'
			case y == top || y == top+boxH-1:
				r = '─'
			case x == left || x == left+boxW-1:
				r = '│'
			}
			d.screen.SetContent(x, y, r, nil, borderStyle)
		}
	}
	d.drawText(left+2, top, left+boxW-2, " "+ov.Title+" ", borderStyle.Bold(true))

	y := top + 1
	if ov.ShowInput {
		d.drawText(left+2, y, left+boxW-2, "> "+ov.Input, borderStyle)
		d.screen.ShowCursor(left+4+ov.InputCursor, y)
		y += 2
	}
	for i, line := range ov.Lines {
		if y >= top+boxH-1 {
			break
		}
		style := borderStyle
		if i == ov.Selected {
			style = selectedStyle
		}
		x := left + 2
		for _, span := range line {
			spanStyle := style
			if span.FG.Mode != term.ColorModeDefault {
				spanStyle = spanStyle.Foreground(colorToTcell(span.FG))
			}
			if span.Bold {
				spanStyle = spanStyle.Bold(true)
			}
			x = d.drawText(x, y, left+boxW-2, span.Text, spanStyle)
		}
		// Extend the selection highlight across the box.
		if i == ov.Selected {
			for ; x < left+boxW-2; x++ {
				d.screen.SetContent(x, y, ' ', nil, style)
			}
		}
		y++
	}
	if ov.Prompt != "" && y < top+boxH {
		d.drawText(left+2, top+boxH-2, left+boxW-2, ov.Prompt, borderStyle.Dim(true))
	}
}

// drawText writes text clipped at limit, returning the next x position.
func (d *TcellDriver) drawText(x, y, limit int, text string, style tcell.Style) int {
	for _, r := range text {
		if x >= limit {
			break
		}
		d.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func (d *TcellDriver) styleFor(cell term.Cell) tcell.Style {
	key := styleKey{fg: cell.FG, bg: cell.BG, attr: cell.Attr}
	if style, ok := d.styles[key]; ok {
		return style
	}
	style := tcell.StyleDefault.
		Foreground(colorToTcell(cell.FG)).
		Background(colorToTcell(cell.BG))
	if cell.Attr&term.AttrBold != 0 {
		style = style.Bold(true)
	}
	if cell.Attr&term.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if cell.Attr&term.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if cell.Attr&term.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	d.styles[key] = style
	return style
}

func colorToTcell(c term.Color) tcell.Color {
	switch c.Mode {
	case term.ColorModeStandard, term.ColorMode256:
		return tcell.PaletteColor(int(c.Value))
	case term.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.ColorDefault
}
