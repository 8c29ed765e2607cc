// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/keybind_test.go
// Summary: Keybind parse/format round-trips and rejection cases.

package action

import "testing"

func TestKeybindRoundTrip(t *testing.T) {
	cases := []string{
		"ctrl+r",
		"alt+enter",
		"ctrl+shift+p",
		"f5",
		"R",
		"r",
		"esc",
		"ctrl+pgup",
		"space",
		"+",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			kb, err := ParseKeybind(s)
			if err != nil {
				t.Fatalf("ParseKeybind(%q): %v", s, err)
			}
			if got := kb.String(); got != s {
				t.Errorf("round trip %q -> %q", s, got)
			}
		})
	}
}

func TestKeybindCaseIsSignificantForBareRunes(t *testing.T) {
	upper, _ := ParseKeybind("R")
	lower, _ := ParseKeybind("r")
	if upper == lower {
		t.Error("'R' and 'r' parsed to the same bind")
	}
}

func TestKeybindModifiedChordsNormalizeCase(t *testing.T) {
	a, _ := ParseKeybind("ctrl+R")
	b, _ := ParseKeybind("ctrl+r")
	if a != b {
		t.Errorf("ctrl+R = %+v, ctrl+r = %+v, want equal after normalization", a, b)
	}
}

func TestKeybindAliases(t *testing.T) {
	esc1, _ := ParseKeybind("esc")
	esc2, _ := ParseKeybind("escape")
	if esc1 != esc2 {
		t.Error("esc and escape differ")
	}
	pg1, _ := ParseKeybind("pgup")
	pg2, _ := ParseKeybind("pageup")
	if pg1 != pg2 {
		t.Error("pgup and pageup differ")
	}
}

func TestKeybindParseRejects(t *testing.T) {
	for _, s := range []string{"", "ctrl+", "bogus+x", "notakey", "ctrl"} {
		if _, err := ParseKeybind(s); err == nil {
			t.Errorf("ParseKeybind(%q) succeeded, want error", s)
		}
	}
}

func TestZeroKeybind(t *testing.T) {
	var kb Keybind
	if !kb.IsZero() {
		t.Error("zero value not reported as zero")
	}
	if kb.String() != "" {
		t.Errorf("zero bind renders %q, want empty", kb.String())
	}
}
