// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/conflict_test.go
// Summary: Conflict resolution semantics: swap, unbind, cancel.

package action

import "testing"

func TestResolveCleanRebind(t *testing.T) {
	r := testRegistry(t)
	res, err := r.Resolve("run", mustBind(t, "f5"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Conflicted() {
		t.Fatalf("unexpected conflict with %q", res.ConflictID)
	}
	if err := r.Commit(res.Changes(StrategyCancel)); err != nil {
		t.Fatal(err)
	}
	if got := r.Get("run").Binding; got != mustBind(t, "f5") {
		t.Errorf("run binding = %s, want f5", got)
	}
	bindingsUnique(t, r)
}

func TestResolveDetectsSingleConflict(t *testing.T) {
	r := testRegistry(t)
	res, err := r.Resolve("run", mustBind(t, "ctrl+b"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Conflicted() {
		t.Fatal("collision with build not detected")
	}
	if res.ConflictID != "build" || res.ConflictLabel != "Build" {
		t.Errorf("conflict names %q/%q, want build/Build", res.ConflictID, res.ConflictLabel)
	}
	// Resolve must not have touched anything.
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+r") {
		t.Errorf("Resolve mutated run to %s", got)
	}
	if got := r.Get("build").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("Resolve mutated build to %s", got)
	}
}

func TestSwapExchangesBindings(t *testing.T) {
	r := testRegistry(t)
	res, _ := r.Resolve("run", mustBind(t, "ctrl+b"))
	if err := r.Commit(res.Changes(StrategySwap)); err != nil {
		t.Fatal(err)
	}
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("run = %s, want ctrl+b", got)
	}
	if got := r.Get("build").Binding; got != mustBind(t, "ctrl+r") {
		t.Errorf("build = %s, want run's previous ctrl+r", got)
	}
	bindingsUnique(t, r)
}

func TestUnbindLeavesColliderBare(t *testing.T) {
	r := testRegistry(t)
	res, _ := r.Resolve("run", mustBind(t, "ctrl+b"))
	if err := r.Commit(res.Changes(StrategyUnbind)); err != nil {
		t.Fatal(err)
	}
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("run = %s, want ctrl+b", got)
	}
	if !r.Get("build").Binding.IsZero() {
		t.Errorf("build = %s, want unbound", r.Get("build").Binding)
	}
	bindingsUnique(t, r)
}

func TestCancelChangesNothing(t *testing.T) {
	r := testRegistry(t)
	res, _ := r.Resolve("run", mustBind(t, "ctrl+b"))
	changes := res.Changes(StrategyCancel)
	if changes != nil {
		t.Fatalf("cancel produced changes: %v", changes)
	}
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+r") {
		t.Errorf("run = %s, want untouched", got)
	}
	if got := r.Get("build").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("build = %s, want untouched", got)
	}
}

func TestSwapWithPreviouslyUnboundRebinder(t *testing.T) {
	r := testRegistry(t)
	if err := r.Commit([]Change{{ID: "run"}}); err != nil {
		t.Fatal(err)
	}
	// run has no key; swapping hands build a zero bind, i.e. an unbind.
	res, _ := r.Resolve("run", mustBind(t, "ctrl+b"))
	if err := r.Commit(res.Changes(StrategySwap)); err != nil {
		t.Fatal(err)
	}
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("run = %s, want ctrl+b", got)
	}
	if !r.Get("build").Binding.IsZero() {
		t.Errorf("build = %s, want unbound after swapping with a bare action", r.Get("build").Binding)
	}
	bindingsUnique(t, r)
}

func TestRebindToOwnKeyIsClean(t *testing.T) {
	r := testRegistry(t)
	res, err := r.Resolve("run", mustBind(t, "ctrl+r"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Conflicted() {
		t.Error("rebinding an action to its own key reported a conflict")
	}
}

func TestResolveUnknownAction(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.Resolve("ghost", mustBind(t, "f5")); err == nil {
		t.Error("Resolve accepted an unknown action ID")
	}
}
