package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

// Sizer measures and pads strings by display width, handling emojis and
// wide Unicode characters correctly.
type Sizer struct {
}

// GetSizer returns the shared sizer instance.
func GetSizer() *Sizer {
	return sharedSizer
}

func (s Sizer) displayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads a string to a specific display width.
func (s Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.displayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// TruncateString truncates a string to a display width, appending an
// ellipsis when cut.
func (s Sizer) TruncateString(text string, width int) string {
	if s.displayWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return runewidth.Truncate(text, width, "")
	}
	return runewidth.Truncate(text, width, "…")
}

// TerminalWidth returns the terminal width with a fallback for
// non-terminal environments.
func (s Sizer) TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 40 {
		return 100
	}
	return width
}
