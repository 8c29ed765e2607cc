// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: workspace/marker.go
// Summary: Strips command completion markers from the session stream.
// Notes: Dispatched shell commands append "echo <marker>$?" so the
// controller learns the exit code. Lines carrying the marker never reach
// the terminal; everything else streams through unbuffered.

package workspace

import (
	"bytes"
	"strconv"
)

const markerPrefix = "__WORKTOP_DONE_"

// markerFilter scans session output line-wise for completion markers.
// Only a trailing partial line that could still turn into a marker line is
// withheld; all other bytes pass through immediately so prompts render.
type markerFilter struct {
	carry  []byte
	onExit func(code int)
}

// maxCarry bounds the withheld tail; a line longer than this cannot be a
// marker echo worth hiding.
const maxCarry = 4096

// Filter returns in with marker lines removed. Exit codes found are
// reported through onExit.
func (f *markerFilter) Filter(in []byte) []byte {
	data := in
	if len(f.carry) > 0 {
		data = append(f.carry, in...)
		f.carry = nil
	}

	var out []byte
	for len(data) > 0 {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			if f.suspicious(data) && len(data) < maxCarry {
				f.carry = data
			} else {
				out = append(out, data...)
			}
			break
		}
		line := data[:nl+1]
		data = data[nl+1:]
		if idx := bytes.Index(line, []byte(markerPrefix)); idx >= 0 {
			f.reportExit(line[idx+len(markerPrefix):])
			continue // the whole line is dropped
		}
		out = append(out, line...)
	}
	return out
}

// Flush releases any withheld tail, marker or not.
func (f *markerFilter) Flush() []byte {
	out := f.carry
	f.carry = nil
	return out
}

// suspicious reports whether the partial line could still become a marker
// line: it contains the prefix, or ends with a proper prefix of it.
func (f *markerFilter) suspicious(partial []byte) bool {
	if bytes.Contains(partial, []byte(markerPrefix)) {
		return true
	}
	max := len(markerPrefix) - 1
	if max > len(partial) {
		max = len(partial)
	}
	for l := max; l > 0; l-- {
		if bytes.HasSuffix(partial, []byte(markerPrefix[:l])) {
			return true
		}
	}
	return false
}

func (f *markerFilter) reportExit(rest []byte) {
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		// The echoed command itself ("echo __WORKTOP_DONE_$?") carries
		// no digits; it is hidden but reports nothing.
		return
	}
	code, err := strconv.Atoi(string(rest[:end]))
	if err == nil && f.onExit != nil {
		f.onExit(code)
	}
}
