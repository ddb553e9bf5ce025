package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const chipGap = 2

type styledChip struct {
	s     string
	width int
}

func buildChips(targets []string, selected int, current string) []styledChip {
	out := make([]styledChip, 0, len(targets))
	for i, name := range targets {
		style := chipStyle
		switch {
		case i == selected:
			style = selectedChipStyle
		case name == current:
			style = currentChipStyle
		}
		label := " " + name + " "
		out = append(out, styledChip{
			s:     style.Render(label),
			width: runewidth.StringWidth(label),
		})
	}
	return out
}

// wrapChips lays chips out left to right, starting a new line when the next chip
// would overflow width. A chip wider than width gets a line of its own.
func wrapChips(chips []styledChip, width int) string {
	if len(chips) == 0 {
		return ""
	}
	gap := strings.Repeat(" ", chipGap)
	var out strings.Builder
	lineWidth := 0
	for i, chip := range chips {
		if i > 0 {
			if width > 0 && lineWidth+chipGap+chip.width > width {
				out.WriteRune('\n')
				lineWidth = 0
			} else {
				out.WriteString(gap)
				lineWidth += chipGap
			}
		}
		out.WriteString(chip.s)
		lineWidth += chip.width
	}
	return out.String()
}
