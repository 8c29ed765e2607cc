// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/action.go
// Summary: Action definitions and their effect variants.

package action

// Op is an internal controller operation an action can trigger.
type Op string

const (
	OpQuit       Op = "quit"
	OpClear      Op = "clear"
	OpRestart    Op = "restart"
	OpScrollUp   Op = "scroll-up"
	OpScrollDown Op = "scroll-down"
)

// Menu names an overlay an action can open.
type Menu string

const (
	MenuPalette Menu = "palette"
	MenuHelp    Menu = "help"
)

// Effect is the closed set of things an action can do.
type Effect interface{ effect() }

// RunShell dispatches a command line through the hosted session.
type RunShell struct{ Command string }

// Internal triggers a controller operation.
type Internal struct{ Op Op }

// OpenMenu opens an overlay.
type OpenMenu struct{ Menu Menu }

func (RunShell) effect() {}
func (Internal) effect() {}
func (OpenMenu) effect() {}

// Action couples an identity and label with a default binding, the current
// binding, an availability predicate and an effect.
type Action struct {
	ID      string
	Label   string
	Default Keybind
	Binding Keybind
	// Enabled gates matching and the action bar entry; nil means always.
	Enabled func() bool
	Effect  Effect
}

// IsEnabled evaluates the availability predicate.
func (a *Action) IsEnabled() bool {
	return a.Enabled == nil || a.Enabled()
}
