// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/palette.go
// Summary: Command palette: filtered action list plus a raw shell line.
// Usage: Opened from normal mode; Enter runs the selection or, with no
// match, dispatches the typed line through the session.

package workspace

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/worktop/action"
	"github.com/framegrace/worktop/history"
)

type paletteResult int

const (
	paletteNone paletteResult = iota
	paletteCancel
	paletteRunAction
	paletteRunLine
)

type palette struct {
	input   []rune
	cursor  int
	sel     int
	matches []*action.Action
	nav     *history.Navigator
}

// newPalette takes a history snapshot (newest first) for up/down recall.
func newPalette(recent []string) *palette {
	return &palette{nav: history.NewNavigator(recent)}
}

// refresh recomputes the filtered action list for the current input.
func (p *palette) refresh(reg *action.Registry) {
	needle := strings.ToLower(strings.TrimSpace(string(p.input)))
	p.matches = p.matches[:0]
	for _, a := range reg.Actions() {
		if !a.IsEnabled() {
			continue
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(a.ID), needle) ||
			strings.Contains(strings.ToLower(a.Label), needle) {
			p.matches = append(p.matches, a)
		}
	}
	if p.sel >= len(p.matches) {
		p.sel = len(p.matches) - 1
	}
	if p.sel < 0 {
		p.sel = 0
	}
}

// handleKey processes one key event. The returned action or line is only
// meaningful for paletteRunAction / paletteRunLine.
func (p *palette) handleKey(ev *tcell.EventKey, reg *action.Registry) (paletteResult, *action.Action, string) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return paletteCancel, nil, ""
	case tcell.KeyEnter:
		if len(p.matches) > 0 {
			return paletteRunAction, p.matches[p.sel], ""
		}
		line := strings.TrimSpace(string(p.input))
		if line != "" {
			return paletteRunLine, nil, line
		}
		return paletteCancel, nil, ""
	case tcell.KeyUp:
		if len(p.matches) > 0 {
			if p.sel > 0 {
				p.sel--
			}
			return paletteNone, nil, ""
		}
		if recalled, ok := p.nav.Up(string(p.input)); ok {
			p.setInput(recalled)
			p.refresh(reg)
		}
		return paletteNone, nil, ""
	case tcell.KeyDown:
		if len(p.matches) > 0 {
			if p.sel < len(p.matches)-1 {
				p.sel++
			}
			return paletteNone, nil, ""
		}
		if recalled, ok := p.nav.Down(); ok {
			p.setInput(recalled)
			p.refresh(reg)
		}
		return paletteNone, nil, ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if p.cursor > 0 {
			p.input = append(p.input[:p.cursor-1], p.input[p.cursor:]...)
			p.cursor--
			p.refresh(reg)
		}
		return paletteNone, nil, ""
	case tcell.KeyDelete:
		if p.cursor < len(p.input) {
			p.input = append(p.input[:p.cursor], p.input[p.cursor+1:]...)
			p.refresh(reg)
		}
		return paletteNone, nil, ""
	case tcell.KeyLeft:
		if p.cursor > 0 {
			p.cursor--
		}
		return paletteNone, nil, ""
	case tcell.KeyRight:
		if p.cursor < len(p.input) {
			p.cursor++
		}
		return paletteNone, nil, ""
	case tcell.KeyHome:
		p.cursor = 0
		return paletteNone, nil, ""
	case tcell.KeyEnd:
		p.cursor = len(p.input)
		return paletteNone, nil, ""
	case tcell.KeyCtrlU:
		p.setInput("")
		p.refresh(reg)
		return paletteNone, nil, ""
	case tcell.KeyRune:
		p.input = append(p.input[:p.cursor],
			append([]rune{ev.Rune()}, p.input[p.cursor:]...)...)
		p.cursor++
		p.refresh(reg)
		return paletteNone, nil, ""
	}
	return paletteNone, nil, ""
}

func (p *palette) setInput(s string) {
	p.input = []rune(s)
	p.cursor = len(p.input)
}

// overlay renders the palette: the filtered list with bindings, then a
// highlighted preview of what Enter would execute.
func (p *palette) overlay(cmds Commands) *Overlay {
	ov := &Overlay{
		Title:       "Palette",
		Input:       string(p.input),
		InputCursor: p.cursor,
		ShowInput:   true,
		Selected:    -1,
	}
	for i, a := range p.matches {
		key := a.Binding.String()
		if key != "" {
			key = "  [" + key + "]"
		}
		ov.Lines = append(ov.Lines, plain(fmt.Sprintf("%-14s%s", a.Label, key)))
		if i == p.sel {
			ov.Selected = i
		}
	}

	preview := ""
	if len(p.matches) > 0 {
		if shell, ok := p.matches[p.sel].Effect.(action.RunShell); ok {
			if cmd, found := resolveCommand(cmds, p.matches[p.sel].ID, shell); found {
				preview = cmd
			}
		}
	} else if line := strings.TrimSpace(string(p.input)); line != "" {
		preview = line
	}
	if preview != "" {
		ov.Lines = append(ov.Lines, Line{})
		ov.Lines = append(ov.Lines, append(Line{{Text: "$ ", Bold: true}}, highlightShell(preview)...))
	}
	return ov
}

// resolveCommand prefers the project's command for an action, falling back
// to the effect's own command line.
func resolveCommand(cmds Commands, id string, shell action.RunShell) (string, bool) {
	if cmds != nil {
		if cmd, ok := cmds.Command(id); ok {
			return cmd, true
		}
	}
	if shell.Command != "" {
		return shell.Command, true
	}
	return "", false
}
