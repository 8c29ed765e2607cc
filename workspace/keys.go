// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/keys.go
// Summary: tcell key events to keybinds, and to pty byte sequences.

package workspace

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/worktop/action"
)

// KeybindFromEvent normalizes a tcell key event into the keybind triple
// used for matching and rebind capture. Returns the zero bind for events
// that cannot be bound.
func KeybindFromEvent(ev *tcell.EventKey) action.Keybind {
	var kb action.Keybind
	mods := ev.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		kb.Mods |= action.ModCtrl
	}
	if mods&tcell.ModAlt != 0 {
		kb.Mods |= action.ModAlt
	}
	if mods&tcell.ModShift != 0 {
		kb.Mods |= action.ModShift
	}

	key := ev.Key()
	switch key {
	case tcell.KeyEnter:
		kb.Key = action.KeyEnter
	case tcell.KeyTab:
		kb.Key = action.KeyTab
	case tcell.KeyEscape:
		kb.Key = action.KeyEscape
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		kb.Key = action.KeyBackspace
	case tcell.KeyUp:
		kb.Key = action.KeyUp
	case tcell.KeyDown:
		kb.Key = action.KeyDown
	case tcell.KeyLeft:
		kb.Key = action.KeyLeft
	case tcell.KeyRight:
		kb.Key = action.KeyRight
	case tcell.KeyHome:
		kb.Key = action.KeyHome
	case tcell.KeyEnd:
		kb.Key = action.KeyEnd
	case tcell.KeyPgUp:
		kb.Key = action.KeyPgUp
	case tcell.KeyPgDn:
		kb.Key = action.KeyPgDn
	case tcell.KeyDelete:
		kb.Key = action.KeyDelete
	case tcell.KeyInsert:
		kb.Key = action.KeyInsert
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5,
		tcell.KeyF6, tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10,
		tcell.KeyF11, tcell.KeyF12:
		kb.Key = action.KeyF1 + action.Key(key-tcell.KeyF1)
	case tcell.KeyRune:
		r := ev.Rune()
		if r == ' ' {
			kb.Key = action.KeySpace
		} else {
			kb.Key = action.KeyRune
			kb.Rune = r
		}
	default:
		// Ctrl+letter arrives as a dedicated key constant; normalize to
		// ctrl plus the lower-case letter.
		if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
			kb.Mods |= action.ModCtrl
			kb.Key = action.KeyRune
			kb.Rune = 'a' + rune(key-tcell.KeyCtrlA)
		}
	}
	return kb
}

// encodeKey translates a tcell key event into the byte sequence a real
// terminal would send the child. Arrow and home/end keys honor the
// application cursor keys mode.
func encodeKey(ev *tcell.EventKey, appCursor bool) []byte {
	csi, ss3 := "\x1b[", "\x1bO"
	arrow := func(letter string) []byte {
		if appCursor {
			return []byte(ss3 + letter)
		}
		return []byte(csi + letter)
	}

	switch ev.Key() {
	case tcell.KeyUp:
		return arrow("A")
	case tcell.KeyDown:
		return arrow("B")
	case tcell.KeyRight:
		return arrow("C")
	case tcell.KeyLeft:
		return arrow("D")
	case tcell.KeyHome:
		return arrow("H")
	case tcell.KeyEnd:
		return arrow("F")
	case tcell.KeyInsert:
		return []byte(csi + "2~")
	case tcell.KeyDelete:
		return []byte(csi + "3~")
	case tcell.KeyPgUp:
		return []byte(csi + "5~")
	case tcell.KeyPgDn:
		return []byte(csi + "6~")
	case tcell.KeyF1:
		return []byte(ss3 + "P")
	case tcell.KeyF2:
		return []byte(ss3 + "Q")
	case tcell.KeyF3:
		return []byte(ss3 + "R")
	case tcell.KeyF4:
		return []byte(ss3 + "S")
	case tcell.KeyF5:
		return []byte(csi + "15~")
	case tcell.KeyF6:
		return []byte(csi + "17~")
	case tcell.KeyF7:
		return []byte(csi + "18~")
	case tcell.KeyF8:
		return []byte(csi + "19~")
	case tcell.KeyF9:
		return []byte(csi + "20~")
	case tcell.KeyF10:
		return []byte(csi + "21~")
	case tcell.KeyF11:
		return []byte(csi + "23~")
	case tcell.KeyF12:
		return []byte(csi + "24~")
	case tcell.KeyEnter:
		return []byte{'\r'}
	case tcell.KeyTab:
		return []byte{'\t'}
	case tcell.KeyEscape:
		return []byte{0x1b}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyRune:
		r := ev.Rune()
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return append([]byte{0x1b}, []byte(string(r))...)
		}
		return []byte(string(r))
	}

	// Control characters map straight to their byte value.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return []byte{byte(k)}
	}
	return nil
}
