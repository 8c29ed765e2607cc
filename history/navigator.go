// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/navigator.go
// Summary: Up/down cursor over a history snapshot for line editing.

package history

// Navigator walks a snapshot of history from a text input. Moving up from
// the input stashes the draft; walking back down past the newest entry
// restores it.
type Navigator struct {
	entries []string // newest first
	idx     int      // -1 = at the draft
	draft   string
}

// NewNavigator takes entries newest first, as returned by Store.Recent.
func NewNavigator(entries []string) *Navigator {
	return &Navigator{entries: entries, idx: -1}
}

// Up moves to the next older entry. The first move stashes the current
// input as the draft. Returns false at the oldest entry.
func (n *Navigator) Up(current string) (string, bool) {
	if len(n.entries) == 0 {
		return "", false
	}
	if n.idx == -1 {
		n.draft = current
	}
	if n.idx+1 >= len(n.entries) {
		return "", false
	}
	n.idx++
	return n.entries[n.idx], true
}

// Down moves toward the draft. Returns the draft (and true) when stepping
// off the newest entry; false when already at the draft.
func (n *Navigator) Down() (string, bool) {
	if n.idx == -1 {
		return "", false
	}
	n.idx--
	if n.idx == -1 {
		return n.draft, true
	}
	return n.entries[n.idx], true
}

// Reset returns to the draft position without restoring it.
func (n *Navigator) Reset() {
	n.idx = -1
	n.draft = ""
}
