// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/overlay.go
// Summary: Help overlay with rebind capture and conflict prompt.

package workspace

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/worktop/action"
	"github.com/framegrace/worktop/term"
)

type helpMode int

const (
	helpBrowse helpMode = iota
	helpCapture
	helpConflict
)

// helpState drives the help overlay: browsing the action list, capturing a
// new key for the selection, and settling conflicts.
type helpState struct {
	mode helpMode
	sel  int
	res  action.Resolution
	warn string
}

// helpOutcome tells the controller what a key did.
type helpOutcome struct {
	close bool
	// commit is non-nil when bindings changed; the controller commits and
	// persists it.
	commit []action.Change
}

func (h *helpState) handleKey(ev *tcell.EventKey, reg *action.Registry) helpOutcome {
	switch h.mode {
	case helpBrowse:
		switch ev.Key() {
		case tcell.KeyEscape:
			return helpOutcome{close: true}
		case tcell.KeyUp:
			if h.sel > 0 {
				h.sel--
			}
		case tcell.KeyDown:
			if h.sel < len(reg.Actions())-1 {
				h.sel++
			}
		case tcell.KeyEnter:
			h.mode = helpCapture
			h.warn = ""
		}
	case helpCapture:
		if ev.Key() == tcell.KeyEscape {
			h.mode = helpBrowse
			return helpOutcome{}
		}
		kb := KeybindFromEvent(ev)
		if kb.IsZero() {
			return helpOutcome{}
		}
		actions := reg.Actions()
		if h.sel >= len(actions) {
			h.mode = helpBrowse
			return helpOutcome{}
		}
		res, err := reg.Resolve(actions[h.sel].ID, kb)
		if err != nil {
			h.mode = helpBrowse
			return helpOutcome{}
		}
		if res.Conflicted() {
			h.res = res
			h.mode = helpConflict
			return helpOutcome{}
		}
		h.mode = helpBrowse
		return helpOutcome{commit: res.Changes(action.StrategyCancel)}
	case helpConflict:
		switch {
		case ev.Key() == tcell.KeyEscape:
			h.mode = helpBrowse
		case ev.Key() == tcell.KeyRune && ev.Rune() == 's':
			h.mode = helpBrowse
			return helpOutcome{commit: h.res.Changes(action.StrategySwap)}
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'u':
			h.mode = helpBrowse
			return helpOutcome{commit: h.res.Changes(action.StrategyUnbind)}
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'c':
			h.mode = helpBrowse
		}
	}
	return helpOutcome{}
}

var dimColor = term.Color{Mode: term.ColorModeStandard, Value: 8}

// overlay renders the action table with current keys and, per mode, the
// capture or conflict prompt.
func (h *helpState) overlay(reg *action.Registry, cmds Commands) *Overlay {
	ov := &Overlay{Title: "Keybindings", Selected: h.sel}
	actions := reg.Actions()
	for _, a := range actions {
		key := a.Binding.String()
		if key == "" {
			key = "(unbound)"
		}
		line := Line{
			{Text: fmt.Sprintf("%-14s", a.Label)},
			{Text: fmt.Sprintf("%-12s", key), Bold: true},
		}
		if shell, ok := a.Effect.(action.RunShell); ok {
			if cmd, found := resolveCommand(cmds, a.ID, shell); found {
				line = append(line, Span{Text: "$ " + cmd, FG: dimColor})
			}
		}
		if !a.IsEnabled() {
			line = Line{{Text: line.Text(), FG: dimColor}}
		}
		ov.Lines = append(ov.Lines, line)
	}

	switch h.mode {
	case helpBrowse:
		ov.Prompt = "enter: rebind   esc: close"
	case helpCapture:
		if h.sel < len(actions) {
			ov.Prompt = fmt.Sprintf("press a key for %q (esc cancels)", actions[h.sel].Label)
		}
	case helpConflict:
		ov.Prompt = fmt.Sprintf("%s is bound to %q: [s]wap  [u]nbind  [c]ancel",
			h.res.NewKey, h.res.ConflictLabel)
	}
	if h.warn != "" {
		ov.Prompt = h.warn
	}
	return ov
}
