// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/vterm_sgr.go
// Summary: SGR (Select Graphic Rendition) parameter handling.

package term

// handleSGR applies a full SGR parameter list to the pending style.
// Extended color introducers (38/48) consume their sub-parameters, so the
// loop is index-driven.
func (v *VTerm) handleSGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			v.currentFG = v.defaultFG
			v.currentBG = v.defaultBG
			v.currentAttr = 0
		case p == 1:
			v.currentAttr |= AttrBold
		case p == 3:
			v.currentAttr |= AttrItalic
		case p == 4:
			v.currentAttr |= AttrUnderline
		case p == 7:
			v.currentAttr |= AttrReverse
		case p == 22:
			v.currentAttr &^= AttrBold
		case p == 23:
			v.currentAttr &^= AttrItalic
		case p == 24:
			v.currentAttr &^= AttrUnderline
		case p == 27:
			v.currentAttr &^= AttrReverse
		case p >= 30 && p <= 37:
			v.currentFG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 38:
			if c, consumed, ok := parseExtendedColor(params[i+1:]); ok {
				v.currentFG = c
				i += consumed
			} else {
				return
			}
		case p == 39:
			v.currentFG = v.defaultFG
		case p >= 40 && p <= 47:
			v.currentBG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 48:
			if c, consumed, ok := parseExtendedColor(params[i+1:]); ok {
				v.currentBG = c
				i += consumed
			} else {
				return
			}
		case p == 49:
			v.currentBG = v.defaultBG
		case p >= 90 && p <= 97:
			v.currentFG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			v.currentBG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		}
	}
}

// parseExtendedColor decodes the tail of a 38/48 sequence: "5;n" for the
// 256-color palette, "2;r;g;b" for true color. Returns the parameter count
// consumed after the introducer.
func parseExtendedColor(rest []int) (Color, int, bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, 0, false
		}
		return Color{Mode: ColorMode256, Value: uint8(clamp(rest[1], 0, 255))}, 2, true
	case 2:
		if len(rest) < 4 {
			return Color{}, 0, false
		}
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(clamp(rest[1], 0, 255)),
			G:    uint8(clamp(rest[2], 0, 255)),
			B:    uint8(clamp(rest[3], 0, 255)),
		}, 4, true
	}
	return Color{}, 0, false
}

// CurrentStyle returns the pending style applied to subsequent glyphs.
func (v *VTerm) CurrentStyle() (fg, bg Color, attr Attribute) {
	return v.currentFG, v.currentBG, v.currentAttr
}
