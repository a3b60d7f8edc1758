package common

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Truncate cuts s to width display cells, marking the cut with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return ansi.Cut(s, 0, width-1) + "…"
}

// SingleLine collapses newlines and runs of spaces so text fits a table row.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
