package tui

import (
	"strings"
	"testing"
)

func TestBuildChipsStyles(t *testing.T) {
	chips := buildChips([]string{"A", "B", "MOUSE_LEFT"}, 0, "B")
	if len(chips) != 3 {
		t.Fatalf("expected 3 chips, got %d", len(chips))
	}
	if chips[0].s != selectedChipStyle.Render(" A ") {
		t.Fatalf("expected selected style for first chip")
	}
	if chips[1].s != currentChipStyle.Render(" B ") {
		t.Fatalf("expected current style for displayed target")
	}
	if chips[2].s != chipStyle.Render(" MOUSE_LEFT ") || chips[2].width != 12 {
		t.Fatalf("unexpected plain chip %+v", chips[2])
	}
}

func TestWrapChips(t *testing.T) {
	chips := []styledChip{{s: "aaa", width: 3}, {s: "bbb", width: 3}, {s: "ccc", width: 3}}
	if got := wrapChips(chips, 0); got != "aaa  bbb  ccc" {
		t.Fatalf("unexpected unwrapped output %q", got)
	}
	got := wrapChips(chips, 8)
	if got != "aaa  bbb\nccc" {
		t.Fatalf("unexpected wrapped output %q", got)
	}
	wide := wrapChips([]styledChip{{s: "wide", width: 20}, {s: "x", width: 1}}, 8)
	if strings.Count(wide, "\n") != 1 {
		t.Fatalf("expected overflowing chip on its own line, got %q", wide)
	}
	if wrapChips(nil, 10) != "" {
		t.Fatalf("expected empty output")
	}
}
