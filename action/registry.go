// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/registry.go
// Summary: Ordered action registry enforcing binding uniqueness.
// Notes: Invariant: no two actions ever hold an equal non-empty binding.
// All binding mutation funnels through Commit.

package action

import "fmt"

// Registry holds actions in registration order. Registration order is
// presentation order everywhere actions are listed.
type Registry struct {
	order   []string
	actions map[string]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]*Action)}
}

// Register adds an action and seeds its current binding from the default.
// Duplicate IDs and default bindings colliding with an already registered
// action are rejected.
func (r *Registry) Register(a Action) error {
	if a.ID == "" {
		return fmt.Errorf("action with empty ID")
	}
	if _, exists := r.actions[a.ID]; exists {
		return fmt.Errorf("duplicate action ID %q", a.ID)
	}
	if !a.Default.IsZero() {
		if other := r.holder(a.Default, a.ID); other != nil {
			return fmt.Errorf("default binding %s of %q collides with %q",
				a.Default, a.ID, other.ID)
		}
	}
	a.Binding = a.Default
	r.actions[a.ID] = &a
	r.order = append(r.order, a.ID)
	return nil
}

// Get returns the action with the given ID, or nil.
func (r *Registry) Get(id string) *Action {
	return r.actions[id]
}

// Actions returns all actions in registration order.
func (r *Registry) Actions() []*Action {
	out := make([]*Action, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.actions[id])
	}
	return out
}

// Match returns the enabled action currently bound to kb, or nil.
func (r *Registry) Match(kb Keybind) *Action {
	if kb.IsZero() {
		return nil
	}
	for _, id := range r.order {
		a := r.actions[id]
		if a.Binding == kb && a.IsEnabled() {
			return a
		}
	}
	return nil
}

// holder returns the action other than exclude currently holding kb.
func (r *Registry) holder(kb Keybind, exclude string) *Action {
	if kb.IsZero() {
		return nil
	}
	for _, id := range r.order {
		if id == exclude {
			continue
		}
		if r.actions[id].Binding == kb {
			return r.actions[id]
		}
	}
	return nil
}

// Bindings snapshots the current non-default bindings plus explicit unbinds,
// keyed by action ID. This is the shape the config store persists.
func (r *Registry) Bindings() map[string]string {
	out := make(map[string]string)
	for _, id := range r.order {
		a := r.actions[id]
		if a.Binding != a.Default {
			out[id] = a.Binding.String()
		}
	}
	return out
}

// Commit applies a set of binding changes atomically. The whole set is
// validated against the uniqueness invariant before anything mutates.
func (r *Registry) Commit(changes []Change) error {
	next := make(map[string]Keybind, len(changes))
	for _, c := range changes {
		if _, ok := r.actions[c.ID]; !ok {
			return fmt.Errorf("unknown action %q", c.ID)
		}
		next[c.ID] = c.Binding
	}
	// Validate the post-state: every non-empty binding held exactly once.
	seen := make(map[Keybind]string)
	for _, id := range r.order {
		kb, changed := next[id]
		if !changed {
			kb = r.actions[id].Binding
		}
		if kb.IsZero() {
			continue
		}
		if prev, dup := seen[kb]; dup {
			return fmt.Errorf("binding %s held by both %q and %q", kb, prev, id)
		}
		seen[kb] = id
	}
	for id, kb := range next {
		r.actions[id].Binding = kb
	}
	return nil
}

// Seed overlays persisted bindings onto the defaults. Unknown action IDs
// and unparsable binds are skipped; a persisted bind displaces a default
// still held by another action, but never another persisted bind.
func (r *Registry) Seed(persisted map[string]string) {
	seeded := make(map[string]bool)
	for _, id := range r.order {
		raw, ok := persisted[id]
		if !ok {
			continue
		}
		if raw == "" {
			r.actions[id].Binding = Keybind{}
			seeded[id] = true
			continue
		}
		kb, err := ParseKeybind(raw)
		if err != nil {
			continue
		}
		if other := r.holder(kb, id); other != nil {
			if seeded[other.ID] {
				// Two persisted entries claim the same key; first wins.
				continue
			}
			other.Binding = Keybind{}
		}
		r.actions[id].Binding = kb
		seeded[id] = true
	}
}
