// Package output provides styled terminal rendering helpers for disciplineos.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color constants for consistent styling across the CLI.
var (
	// ColorPrimary is used for headers and emphasis.
	ColorPrimary = lipgloss.Color("#64b5f6")

	// ColorSuccess is used for goals met and unlocked achievements.
	ColorSuccess = lipgloss.Color("#66bb6a")

	// ColorError is used for limits exceeded.
	ColorError = lipgloss.Color("#ef5350")

	// ColorWarning is used for caution indicators.
	ColorWarning = lipgloss.Color("#fff59d")

	// ColorMuted is used for secondary text and borders.
	ColorMuted = lipgloss.Color("#888888")

	// ColorAccent is used for XP and level values.
	ColorAccent = lipgloss.Color("#ba68c8")
)

// Styles provides reusable lipgloss styles.
var (
	StyleHeader  lipgloss.Style
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleBold    lipgloss.Style
	StyleAccent  lipgloss.Style

	// StyleLabel is used for metric labels.
	StyleLabel lipgloss.Style
	// StyleValue is used for metric values.
	StyleValue lipgloss.Style
)

func init() {
	setStyles(false)
}

func setStyles(plain bool) {
	base := lipgloss.NewStyle()
	fg := func(c lipgloss.Color) lipgloss.Style {
		if plain {
			return base
		}
		return base.Foreground(c)
	}
	bold := base
	if !plain {
		bold = base.Bold(true)
	}

	StyleHeader = fg(ColorPrimary).Inherit(bold)
	StyleSuccess = fg(ColorSuccess)
	StyleError = fg(ColorError)
	StyleWarning = fg(ColorWarning)
	StyleMuted = fg(ColorMuted)
	StyleBold = bold
	StyleAccent = fg(ColorAccent).Inherit(bold)
	StyleLabel = base.Width(24)
	StyleValue = bold.Width(12)
}

// noColor tracks whether color output is disabled.
var noColor bool

// SetNoColor disables or enables color output globally by rebuilding the
// package-level styles.
func SetNoColor(disabled bool) {
	noColor = disabled
	setStyles(disabled)
}

// IsNoColor returns whether color output is currently disabled.
func IsNoColor() bool {
	return noColor
}

// AutoColor disables color when it is turned off by flag or config, when
// NO_COLOR is set, or when f is not a terminal.
func AutoColor(f *os.File, enabled bool) {
	if !enabled || os.Getenv("NO_COLOR") != "" || !isTerminal(f) {
		SetNoColor(true)
	}
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
