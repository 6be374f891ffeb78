package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"

	ClearLineFromCursor = "\033[K" // Clear from cursor to end of line
	SaveCursor          = "\033[s"
	RestoreCursor       = "\033[u"
)

// GetDisplayWidth calculates the display width of a string, accounting for
// wide and zero-width runes
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth cuts text so it occupies at most width terminal cells,
// marking the cut with an ellipsis.
func TruncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "…")
}

// PadRight pads text with spaces to width cells
func PadRight(text string, width int) string {
	if pad := width - GetDisplayWidth(text); pad > 0 {
		return text + strings.Repeat(" ", pad)
	}
	return text
}

// PadLeft right-aligns text in width cells
func PadLeft(text string, width int) string {
	if pad := width - GetDisplayWidth(text); pad > 0 {
		return strings.Repeat(" ", pad) + text
	}
	return text
}

// MoveCursor returns ANSI sequence to move cursor to specific position
func MoveCursor(row, col int) string {
	return fmt.Sprintf("\033[%d;%dH", row, col)
}

// PercentColor picks a color for a usage percentage
func PercentColor(percentage float64) string {
	if percentage >= 90 {
		return ColorRed
	}
	if percentage >= 60 {
		return ColorYellow
	}
	return ColorGreen
}
