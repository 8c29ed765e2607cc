// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/actions.go
// Summary: The compiled-in action set and its default bindings.

package workspace

import (
	"fmt"

	"github.com/framegrace/worktop/action"
)

// Commands resolves an action ID to a project shell command.
type Commands interface {
	Command(actionID string) (string, bool)
}

// actionSpec is one compiled-in action. Shell actions take their command
// from the project at dispatch time.
type actionSpec struct {
	id, label, key string
	effect         action.Effect
	needsSession   bool
	needsCommand   bool
}

var compiledActions = []actionSpec{
	{"run", "Run", "ctrl+r", action.RunShell{}, true, true},
	{"build", "Build", "ctrl+b", action.RunShell{}, true, true},
	{"lint", "Lint", "ctrl+l", action.RunShell{}, true, true},
	{"test", "Test", "ctrl+t", action.RunShell{}, true, true},
	{"install", "Install", "f7", action.RunShell{}, true, true},
	{"clean", "Clean", "f8", action.RunShell{}, true, true},
	{"push", "Push", "f6", action.RunShell{}, true, true},
	{"commit", "Commit", "f9", action.RunShell{}, true, true},
	{"clear", "Clear", "f10", action.Internal{Op: action.OpClear}, false, false},
	{"palette", "Palette", "ctrl+p", action.OpenMenu{Menu: action.MenuPalette}, false, false},
	{"help", "Help", "f1", action.OpenMenu{Menu: action.MenuHelp}, false, false},
	{"scroll-up", "Scroll Up", "alt+up", action.Internal{Op: action.OpScrollUp}, false, false},
	{"scroll-down", "Scroll Down", "alt+down", action.Internal{Op: action.OpScrollDown}, false, false},
	{"restart", "Restart", "f5", action.Internal{Op: action.OpRestart}, false, false},
	{"quit", "Quit", "ctrl+q", action.Internal{Op: action.OpQuit}, false, false},
}

// BuildRegistry registers the compiled-in actions. Shell actions are only
// enabled while the session lives and the project offers a command for
// them.
func BuildRegistry(cmds Commands, sessionAlive func() bool) (*action.Registry, error) {
	reg := action.NewRegistry()
	for _, spec := range compiledActions {
		kb, err := action.ParseKeybind(spec.key)
		if err != nil {
			return nil, fmt.Errorf("default binding for %s: %w", spec.id, err)
		}
		a := action.Action{
			ID:      spec.id,
			Label:   spec.label,
			Default: kb,
			Effect:  spec.effect,
		}
		if spec.needsSession || spec.needsCommand {
			id := spec.id
			needsSession, needsCommand := spec.needsSession, spec.needsCommand
			a.Enabled = func() bool {
				if needsSession && sessionAlive != nil && !sessionAlive() {
					return false
				}
				if needsCommand && cmds != nil {
					if _, ok := cmds.Command(id); !ok {
						return false
					}
				}
				return true
			}
		}
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
