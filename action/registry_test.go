// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/registry_test.go
// Summary: Registry ordering, matching and seeding from persisted state.

package action

import "testing"

func mustBind(t *testing.T, s string) Keybind {
	t.Helper()
	kb, err := ParseKeybind(s)
	if err != nil {
		t.Fatalf("ParseKeybind(%q): %v", s, err)
	}
	return kb
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	seed := []struct {
		id, label, key string
	}{
		{"run", "Run", "ctrl+r"},
		{"build", "Build", "ctrl+b"},
		{"lint", "Lint", "ctrl+l"},
		{"quit", "Quit", "ctrl+q"},
	}
	for _, s := range seed {
		err := r.Register(Action{
			ID:      s.id,
			Label:   s.label,
			Default: mustBind(t, s.key),
			Effect:  Internal{Op: Op(s.id)},
		})
		if err != nil {
			t.Fatalf("Register(%s): %v", s.id, err)
		}
	}
	return r
}

// bindingsUnique asserts the registry invariant: no two actions hold an
// equal non-empty binding.
func bindingsUnique(t *testing.T, r *Registry) {
	t.Helper()
	seen := make(map[Keybind]string)
	for _, a := range r.Actions() {
		if a.Binding.IsZero() {
			continue
		}
		if other, dup := seen[a.Binding]; dup {
			t.Fatalf("binding %s held by both %q and %q", a.Binding, other, a.ID)
		}
		seen[a.Binding] = a.ID
	}
}

func TestRegistrationOrderIsPreserved(t *testing.T) {
	r := testRegistry(t)
	want := []string{"run", "build", "lint", "quit"}
	actions := r.Actions()
	if len(actions) != len(want) {
		t.Fatalf("actions = %d, want %d", len(actions), len(want))
	}
	for i, a := range actions {
		if a.ID != want[i] {
			t.Errorf("actions[%d] = %q, want %q", i, a.ID, want[i])
		}
	}
}

func TestDuplicateRegistrationRejected(t *testing.T) {
	r := testRegistry(t)
	if err := r.Register(Action{ID: "run"}); err == nil {
		t.Error("duplicate ID accepted")
	}
	err := r.Register(Action{ID: "other", Default: mustBind(t, "ctrl+r")})
	if err == nil {
		t.Error("colliding default binding accepted")
	}
	bindingsUnique(t, r)
}

func TestMatchHonorsEnabledPredicate(t *testing.T) {
	r := testRegistry(t)
	enabled := true
	r.Get("run").Enabled = func() bool { return enabled }

	if a := r.Match(mustBind(t, "ctrl+r")); a == nil || a.ID != "run" {
		t.Fatalf("Match = %v, want run", a)
	}
	enabled = false
	if a := r.Match(mustBind(t, "ctrl+r")); a != nil {
		t.Errorf("disabled action still matched: %q", a.ID)
	}
}

func TestMatchIgnoresZeroBind(t *testing.T) {
	r := testRegistry(t)
	if err := r.Commit([]Change{{ID: "lint"}}); err != nil {
		t.Fatalf("unbind: %v", err)
	}
	if a := r.Match(Keybind{}); a != nil {
		t.Errorf("zero keybind matched %q", a.ID)
	}
}

func TestSeedOverridesAndIgnoresUnknown(t *testing.T) {
	r := testRegistry(t)
	r.Seed(map[string]string{
		"run":       "f5",
		"ghost":     "f9", // unknown ID, ignored
		"lint":      "",   // explicit unbind
		"quit":      "not a key",
		"unrelated": "ctrl+x",
	})

	if got := r.Get("run").Binding; got != mustBind(t, "f5") {
		t.Errorf("run binding = %s, want f5", got)
	}
	if !r.Get("lint").Binding.IsZero() {
		t.Error("explicit unbind not applied")
	}
	// Unparsable persisted value falls back to the default.
	if got := r.Get("quit").Binding; got != mustBind(t, "ctrl+q") {
		t.Errorf("quit binding = %s, want default ctrl+q", got)
	}
	// Missing entries keep their defaults.
	if got := r.Get("build").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("build binding = %s, want default ctrl+b", got)
	}
	bindingsUnique(t, r)
}

func TestSeedDisplacesDefaultButNotPersisted(t *testing.T) {
	r := testRegistry(t)
	// run claims build's default key: build loses it.
	r.Seed(map[string]string{"run": "ctrl+b"})
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+b") {
		t.Fatalf("run binding = %s, want ctrl+b", got)
	}
	if !r.Get("build").Binding.IsZero() {
		t.Errorf("build kept %s, want displaced", r.Get("build").Binding)
	}
	bindingsUnique(t, r)

	// Two persisted entries claiming one key: the first in registration
	// order wins, the second keeps its default.
	r2 := testRegistry(t)
	r2.Seed(map[string]string{"run": "f5", "build": "f5"})
	if got := r2.Get("run").Binding; got != mustBind(t, "f5") {
		t.Errorf("run binding = %s, want f5", got)
	}
	if got := r2.Get("build").Binding; got != mustBind(t, "ctrl+b") {
		t.Errorf("build binding = %s, want default kept", got)
	}
	bindingsUnique(t, r2)
}

func TestBindingsSnapshotsOnlyOverrides(t *testing.T) {
	r := testRegistry(t)
	res, err := r.Resolve("run", mustBind(t, "f5"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Commit(res.Changes(StrategyCancel)); err != nil {
		t.Fatal(err)
	}
	snap := r.Bindings()
	if snap["run"] != "f5" {
		t.Errorf("snapshot run = %q, want f5", snap["run"])
	}
	if _, ok := snap["build"]; ok {
		t.Error("unchanged default leaked into snapshot")
	}
}

func TestCommitRejectsInvariantViolation(t *testing.T) {
	r := testRegistry(t)
	err := r.Commit([]Change{{ID: "run", Binding: mustBind(t, "ctrl+b")}})
	if err == nil {
		t.Fatal("commit created a duplicate binding")
	}
	// Nothing may have changed.
	if got := r.Get("run").Binding; got != mustBind(t, "ctrl+r") {
		t.Errorf("failed commit mutated state: run = %s", got)
	}
	bindingsUnique(t, r)
}
