// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/highlight.go
// Summary: Shell command highlighting for overlay previews.

package workspace

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/framegrace/worktop/term"
)

const highlightStyle = "monokai"

// highlightShell tokenizes a shell command line into styled spans. Any
// lexer trouble falls back to an unstyled line; previews are cosmetic.
func highlightShell(command string) Line {
	if command == "" {
		return nil
	}
	lexer := lexers.Get("bash")
	if lexer == nil {
		return plain(command)
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}

	it, err := lexer.Tokenise(nil, command)
	if err != nil {
		return plain(command)
	}

	var line Line
	for _, tok := range it.Tokens() {
		if tok.Value == "" {
			continue
		}
		entry := style.Get(tok.Type)
		span := Span{Text: tok.Value, Bold: entry.Bold == chroma.Yes}
		if entry.Colour.IsSet() {
			span.FG = term.Color{
				Mode: term.ColorModeRGB,
				R:    entry.Colour.Red(),
				G:    entry.Colour.Green(),
				B:    entry.Colour.Blue(),
			}
		}
		line = append(line, span)
	}
	if len(line) == 0 {
		return plain(command)
	}
	return line
}
