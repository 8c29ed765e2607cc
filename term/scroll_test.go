// Copyright © 2025 Worktop contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/scroll_test.go
// Summary: Scroll region, scrollback capture and viewport windowing.

package term

import (
	"fmt"
	"strings"
	"testing"
)

func TestScrollUpPushesTopRowIntoScrollback(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	p.Parse([]byte("one\r\ntwo\r\nthree"))
	vt.ScrollUp(1)

	if vt.History().Len() != 1 {
		t.Fatalf("history rows = %d, want 1", vt.History().Len())
	}
	if got := reconstructText(vt.History().Row(0)); got != "one" {
		t.Errorf("scrollback row = %q, want %q", got, "one")
	}
	if got := reconstructText(vt.Grid()[0]); got != "two" {
		t.Errorf("row 0 after scroll = %q, want %q", got, "two")
	}
	if got := reconstructText(vt.Grid()[2]); got != "" {
		t.Errorf("vacated bottom row = %q, want blank", got)
	}
}

func TestRepeatedScrollPreservesHistoryOrder(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	for i := 1; i <= 10; i++ {
		p.Parse([]byte(fmt.Sprintf("line%d\r\n", i)))
	}
	// 10 lines through a 3-row grid: the early lines live in scrollback,
	// oldest first, with no gaps.
	hist := vt.History()
	for i := 0; i < hist.Len(); i++ {
		want := fmt.Sprintf("line%d", i+1)
		if got := reconstructText(hist.Row(i)); got != want {
			t.Fatalf("history[%d] = %q, want %q", i, got, want)
		}
	}
}

func TestScrollbackEviction(t *testing.T) {
	vt := NewVTerm(10, 3, WithScrollback(5))
	p := NewParser(vt)
	for i := 1; i <= 20; i++ {
		p.Parse([]byte(fmt.Sprintf("l%d\r\n", i)))
	}
	hist := vt.History()
	if hist.Len() != 5 {
		t.Fatalf("history rows = %d, want capped at 5", hist.Len())
	}
	// Newest survive, oldest evicted.
	if got := reconstructText(hist.Row(hist.Len() - 1)); !strings.HasPrefix(got, "l") {
		t.Fatalf("unexpected newest row %q", got)
	}
	if got := reconstructText(hist.Row(0)); got == "l1" {
		t.Errorf("oldest row still present, eviction failed")
	}
}

func TestScrollRegionDoesNotCapture(t *testing.T) {
	vt, p := newTestTerm(10, 5)
	p.Parse([]byte("\x1b[2;4r")) // margins rows 1..3
	p.Parse([]byte("\x1b[4;1H")) // bottom margin
	before := vt.History().Len()
	p.Parse([]byte("spill\n")) // line feed at the bottom margin scrolls the region
	if vt.History().Len() != before {
		t.Errorf("partial-region scroll leaked %d rows into scrollback",
			vt.History().Len()-before)
	}
}

func TestScrollRegionScrollsOnlyInsideMargins(t *testing.T) {
	vt, p := newTestTerm(10, 4)
	p.Parse([]byte("top\r\naaa\r\nbbb\r\nbot"))
	p.Parse([]byte("\x1b[2;3r\x1b[3;1H\n")) // scroll rows 1..2

	if got := reconstructText(vt.Grid()[0]); got != "top" {
		t.Errorf("row above region = %q, want %q", got, "top")
	}
	if got := reconstructText(vt.Grid()[1]); got != "bbb" {
		t.Errorf("row 1 = %q, want %q", got, "bbb")
	}
	if got := reconstructText(vt.Grid()[2]); got != "" {
		t.Errorf("row 2 = %q, want blank", got)
	}
	if got := reconstructText(vt.Grid()[3]); got != "bot" {
		t.Errorf("row below region = %q, want %q", got, "bot")
	}
}

func TestReverseIndexScrollsDownAtTopMargin(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	p.Parse([]byte("one\r\ntwo\x1b[1;1H\x1bM"))
	if got := reconstructText(vt.Grid()[0]); got != "" {
		t.Errorf("row 0 = %q, want blank after reverse index", got)
	}
	if got := reconstructText(vt.Grid()[1]); got != "one" {
		t.Errorf("row 1 = %q, want %q", got, "one")
	}
}

func TestViewportOffsetZeroIsLiveGrid(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	p.Parse([]byte("a\r\nb\r\nc"))
	rows := vt.Viewport(0)
	if len(rows) != 3 {
		t.Fatalf("viewport rows = %d, want 3", len(rows))
	}
	if got := reconstructText(rows[0]); got != "a" {
		t.Errorf("viewport[0] = %q, want %q", got, "a")
	}
}

func TestViewportWalksIntoScrollback(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	for i := 1; i <= 6; i++ {
		p.Parse([]byte(fmt.Sprintf("l%d\r\n", i)))
	}
	// With offset 2 the window starts two rows back in history.
	rows := vt.Viewport(2)
	if len(rows) != 3 {
		t.Fatalf("viewport rows = %d, want 3", len(rows))
	}
	first := reconstructText(rows[0])
	live := reconstructText(vt.Grid()[0])
	if first == live {
		t.Errorf("offset viewport starts at live grid; scrollback ignored")
	}
}

func TestViewportOffsetClampedToHistory(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	p.Parse([]byte("x\r\n"))
	rows := vt.Viewport(9999)
	if len(rows) != 3 {
		t.Fatalf("viewport rows = %d, want full height despite huge offset", len(rows))
	}
}

func TestAltScreenScrollNeverReachesScrollback(t *testing.T) {
	vt, p := newTestTerm(10, 3)
	p.Parse([]byte("keep\r\n\x1b[?1049h"))
	before := vt.History().Len()
	for i := 0; i < 10; i++ {
		p.Parse([]byte("fill\r\n"))
	}
	if vt.History().Len() != before {
		t.Errorf("alternate screen scrolled into scrollback")
	}
	p.Parse([]byte("\x1b[?1049l"))
	if got := reconstructText(vt.Grid()[0]); got != "keep" {
		t.Errorf("primary row 0 = %q, want %q", got, "keep")
	}
}

func TestInsertAndDeleteLines(t *testing.T) {
	vt, p := newTestTerm(10, 4)
	p.Parse([]byte("a\r\nb\r\nc\r\nd\x1b[2;1H\x1b[1L"))
	if got := reconstructText(vt.Grid()[1]); got != "" {
		t.Errorf("row 1 after IL = %q, want blank", got)
	}
	if got := reconstructText(vt.Grid()[2]); got != "b" {
		t.Errorf("row 2 after IL = %q, want %q", got, "b")
	}
	// d fell off the bottom.
	if got := reconstructText(vt.Grid()[3]); got != "c" {
		t.Errorf("row 3 after IL = %q, want %q", got, "c")
	}

	p.Parse([]byte("\x1b[2;1H\x1b[1M"))
	if got := reconstructText(vt.Grid()[1]); got != "b" {
		t.Errorf("row 1 after DL = %q, want %q", got, "b")
	}
	if got := reconstructText(vt.Grid()[3]); got != "" {
		t.Errorf("row 3 after DL = %q, want blank", got)
	}
}
