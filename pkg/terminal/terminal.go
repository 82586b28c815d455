// Package terminal provides width detection and box drawing for CLI output.
package terminal

import (
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Width limits.
const (
	DefaultWidth = 80
	MinWidth     = 40
	MaxWidth     = 120
)

// Box drawing characters.
const (
	BoxHorizontal       = "─"
	BoxHeavyHorizontal  = "━"
	BoxHeavyVertical    = "┃"
	BoxHeavyTopLeft     = "┏"
	BoxHeavyTopRight    = "┓"
	BoxHeavyBottomLeft  = "┗"
	BoxHeavyBottomRight = "┛"
)

// headerPadding is the space between a header border and its content.
const headerPadding = 1

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool
}

// NewConfig creates a Config from the COLUMNS and NO_COLOR environment variables.
func NewConfig() Config {
	return Config{
		Width:   DetectWidth(),
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// DetectWidth returns the COLUMNS width clamped to [MinWidth, MaxWidth], or
// DefaultWidth when COLUMNS is unset or invalid.
func DetectWidth() int {
	width, err := strconv.Atoi(os.Getenv("COLUMNS"))
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return ClampWidth(width)
}

// ClampWidth limits width to [MinWidth, MaxWidth].
func ClampWidth(width int) int {
	return max(MinWidth, min(width, MaxWidth))
}

// DrawSeparator draws a thin horizontal line.
func DrawSeparator(width int) string {
	if width <= 0 {
		return ""
	}

	return strings.Repeat(BoxHorizontal, width)
}

// DrawHeader draws a heavy-bordered box with title on the left and right
// aligned to the right edge. The box grows when the content does not fit.
func DrawHeader(title, right string, width int) string {
	titleLen := utf8.RuneCountInString(title)
	rightLen := utf8.RuneCountInString(right)

	minRequired := titleLen + rightLen + 2*headerPadding + 3
	width = max(width, minRequired)

	inner := width - 2
	gap := inner - 2*headerPadding - titleLen - rightLen

	pad := strings.Repeat(" ", headerPadding)
	content := pad + title + strings.Repeat(" ", gap) + right + pad

	var sb strings.Builder

	sb.WriteString(BoxHeavyTopLeft + strings.Repeat(BoxHeavyHorizontal, inner) + BoxHeavyTopRight + "\n")
	sb.WriteString(BoxHeavyVertical + content + BoxHeavyVertical + "\n")
	sb.WriteString(BoxHeavyBottomLeft + strings.Repeat(BoxHeavyHorizontal, inner) + BoxHeavyBottomRight)

	return sb.String()
}
