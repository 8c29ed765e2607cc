// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_modes.go
// Summary: DEC private mode handling and alternate screen switching.

package term

// setPrivateMode handles CSI ? n h/l. Unknown modes are ignored.
func (v *VTerm) setPrivateMode(mode int, enabled bool) {
	switch mode {
	case 1: // DECCKM, application cursor keys
		v.appCursorKeys = enabled
	case 7: // DECAWM, autowrap
		v.autoWrapMode = enabled
		if !enabled {
			v.wrapNext = false
		}
	case 25: // DECTCEM, cursor visibility
		v.cursorVisible = enabled
	case 47, 1047: // alternate screen, no cursor save
		if enabled {
			v.enterAltScreen(false)
		} else {
			v.exitAltScreen()
		}
	case 1049: // alternate screen with cursor save/restore
		if enabled {
			v.enterAltScreen(true)
		} else {
			v.exitAltScreen()
		}
	case 2004: // bracketed paste; tracked for the session layer only
		v.bracketedPaste = enabled
	}
}

// enterAltScreen parks the primary grid and presents a cleared alternate
// grid. The primary grid and its scrollback survive untouched.
func (v *VTerm) enterAltScreen(saveCursor bool) {
	if v.onAlt {
		return
	}
	if saveCursor {
		v.altSavedX, v.altSavedY = v.cursorX, v.cursorY
	}
	v.grid, v.inactive = v.inactive, v.grid
	v.onAlt = true
	v.ClearScreen()
	v.SetCursorPos(0, 0)
}

// exitAltScreen restores the primary grid exactly as it was left.
func (v *VTerm) exitAltScreen() {
	if !v.onAlt {
		return
	}
	v.grid, v.inactive = v.inactive, v.grid
	v.onAlt = false
	v.SetCursorPos(v.altSavedY, v.altSavedX)
}
