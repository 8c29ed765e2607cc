// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: action/keybind.go
// Summary: Normalized keybinding triple with a stable textual form.
// Usage: The textual form ("ctrl+r", "f5", "R") is what the config store
// persists; Parse and String round-trip.

package action

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Modifiers is a bitmask of modifier keys held during a keypress.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModAlt
	ModShift
)

// Key identifies a non-printing key. Printing keys use KeyRune plus the
// Rune field.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeySpace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
	KeyDelete
	KeyInsert
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyEscape:    "esc",
	KeyBackspace: "backspace",
	KeySpace:     "space",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPgUp:      "pgup",
	KeyPgDn:      "pgdn",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+1)
	for k, name := range keyNames {
		m[name] = k
	}
	m["escape"] = KeyEscape
	m["pageup"] = KeyPgUp
	m["pagedown"] = KeyPgDn
	m["del"] = KeyDelete
	return m
}()

// Keybind is a normalized key chord. Two chords are equal exactly when
// their three fields are equal; matching is equality, never prefixes.
type Keybind struct {
	Mods Modifiers
	Key  Key
	Rune rune
}

// IsZero reports whether the keybind is unset.
func (k Keybind) IsZero() bool {
	return k.Mods == 0 && k.Key == KeyNone && k.Rune == 0
}

// String renders the persistable form: modifier prefixes joined with '+',
// then the key name or the literal rune.
func (k Keybind) String() string {
	if k.IsZero() {
		return ""
	}
	var sb strings.Builder
	if k.Mods&ModCtrl != 0 {
		sb.WriteString("ctrl+")
	}
	if k.Mods&ModAlt != 0 {
		sb.WriteString("alt+")
	}
	if k.Mods&ModShift != 0 {
		sb.WriteString("shift+")
	}
	if k.Key == KeyRune {
		sb.WriteRune(k.Rune)
	} else if name, ok := keyNames[k.Key]; ok {
		sb.WriteString(name)
	} else {
		sb.WriteString("unknown")
	}
	return sb.String()
}

// ParseKeybind parses the textual form produced by String. Single runes
// stand for themselves; case is preserved ("R" and "r" are distinct binds).
func ParseKeybind(s string) (Keybind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Keybind{}, fmt.Errorf("empty keybind")
	}
	var kb Keybind
	parts := strings.Split(s, "+")
	// The key itself being '+' shows up as two trailing empty parts
	// ("+" or "ctrl++"). A single trailing empty part is a dangling
	// separator and stays an error.
	if parts[len(parts)-1] == "" {
		if len(parts) < 2 || parts[len(parts)-2] != "" {
			return Keybind{}, fmt.Errorf("dangling '+' in keybind %q", s)
		}
		parts = append(parts[:len(parts)-2], "+")
	}
	for i, part := range parts {
		last := i == len(parts)-1
		lower := strings.ToLower(part)
		if !last {
			switch lower {
			case "ctrl", "control":
				kb.Mods |= ModCtrl
			case "alt", "meta":
				kb.Mods |= ModAlt
			case "shift":
				kb.Mods |= ModShift
			default:
				return Keybind{}, fmt.Errorf("unknown modifier %q in %q", part, s)
			}
			continue
		}
		if key, ok := keysByName[lower]; ok {
			kb.Key = key
			continue
		}
		if utf8.RuneCountInString(part) == 1 {
			r, _ := utf8.DecodeRuneInString(part)
			kb.Key = KeyRune
			// Modified chords normalize letters to lower case; a bare
			// upper-case rune keeps its case (that IS the shift).
			if kb.Mods != 0 {
				r = toLower(r)
			}
			kb.Rune = r
			continue
		}
		return Keybind{}, fmt.Errorf("unknown key %q in %q", part, s)
	}
	if kb.Key == KeyNone {
		return Keybind{}, fmt.Errorf("keybind %q has no key", s)
	}
	return kb, nil
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
