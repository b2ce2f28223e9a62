// Package color paints terminal text with the eight classic ANSI foreground
// colors. Rendering degrades to plain text when the output has no color support.
package color

import (
	"github.com/charmbracelet/lipgloss"
)

// Color is one of the eight classic ANSI colors.
type Color uint8

const (
	Black Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case Magenta:
		return "magenta"
	case Cyan:
		return "cyan"
	case White:
		return "white"
	default:
		return "unknown"
	}
}

// Render paints text with c as its foreground.
func (c Color) Render(text string) string {
	return Foreground(c, text)
}

// Style returns a lipgloss style with c as its foreground.
func (c Color) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(c))
}

// Foreground paints text with the given foreground color.
func Foreground(c Color, text string) string {
	return c.Style().Render(text)
}
