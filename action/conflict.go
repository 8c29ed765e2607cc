// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/conflict.go
// Summary: Pure rebind conflict resolution over a registry snapshot.
// Notes: Resolve never mutates; callers turn the resolution into Changes
// and Commit them.

package action

import "fmt"

// Strategy selects how a binding conflict is settled.
type Strategy int

const (
	// StrategySwap gives the colliding action the rebinder's previous key.
	StrategySwap Strategy = iota
	// StrategyUnbind leaves the colliding action without a key.
	StrategyUnbind
	// StrategyCancel keeps every binding as it was.
	StrategyCancel
)

// Change is one binding update. A zero Binding unbinds.
type Change struct {
	ID      string
	Binding Keybind
}

// Resolution is the outcome of proposing a rebind against current state.
type Resolution struct {
	ActionID string
	NewKey   Keybind
	PrevKey  Keybind

	// ConflictID names the single action already holding NewKey, empty
	// when the rebind applies cleanly.
	ConflictID    string
	ConflictLabel string
}

// Conflicted reports whether the proposal collides with another action.
func (r Resolution) Conflicted() bool { return r.ConflictID != "" }

// Changes returns the binding updates realizing the resolution under the
// given strategy. For a clean resolution the strategy is ignored. Cancel
// returns nil: nothing changes.
func (r Resolution) Changes(s Strategy) []Change {
	if !r.Conflicted() {
		return []Change{{ID: r.ActionID, Binding: r.NewKey}}
	}
	switch s {
	case StrategySwap:
		return []Change{
			{ID: r.ActionID, Binding: r.NewKey},
			{ID: r.ConflictID, Binding: r.PrevKey},
		}
	case StrategyUnbind:
		return []Change{
			{ID: r.ActionID, Binding: r.NewKey},
			{ID: r.ConflictID, Binding: Keybind{}},
		}
	}
	return nil
}

// Resolve proposes binding kb to the named action. It inspects state but
// changes nothing. By the uniqueness invariant at most one other action can
// hold kb, so a conflict always names exactly one action.
func (r *Registry) Resolve(id string, kb Keybind) (Resolution, error) {
	a := r.actions[id]
	if a == nil {
		return Resolution{}, fmt.Errorf("unknown action %q", id)
	}
	res := Resolution{ActionID: id, NewKey: kb, PrevKey: a.Binding}
	if kb.IsZero() || kb == a.Binding {
		return res, nil
	}
	if other := r.holder(kb, id); other != nil {
		res.ConflictID = other.ID
		res.ConflictLabel = other.Label
	}
	return res, nil
}
