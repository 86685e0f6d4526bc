// Package style provides semantic terminal styling using lipgloss.
//
// This package is the only place where lipgloss is imported. All styling
// is semantic (Prompt, Error, Suggestion, etc.) rather than visual.
//
// When disabled, all helpers return the input string unchanged with no ANSI codes.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Default ANSI 256 palette. "bold" selects bold text instead of a color.
const (
	promptColor     = "10"
	selectedColor   = "0"
	selectedBg      = "14"
	suggestionColor = "244"
	successColor    = "10"
	errorColor      = "9"
	infoColor       = "12"
	mutedColor      = "244"
	headerColor     = "bold"
)

var (
	enabled bool

	// Pre-created styles, used only when enabled is true.
	promptStyle     lipgloss.Style
	selectedStyle   lipgloss.Style
	suggestionStyle lipgloss.Style
	successStyle    lipgloss.Style
	errorStyle      lipgloss.Style
	infoStyle       lipgloss.Style
	mutedStyle      lipgloss.Style
	headerStyle     lipgloss.Style
)

// Init initializes the style package with the given enabled state.
// It also respects the NO_COLOR and ARBORSH_NO_COLOR environment
// variables; if either is set (to any non-empty value), styling is
// disabled regardless of the enable parameter.
//
// This function should be called once from main before any output.
func Init(enable bool) {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("ARBORSH_NO_COLOR") != "" {
		enabled = false
		return
	}

	enabled = enable

	if enabled {
		initStyles()
	}
}

// initStyles creates the lipgloss styles.
// Uses the ANSI 256-color palette to support both basic and extended colors.
func initStyles() {
	// Force lipgloss to use ANSI256 colors regardless of TTY detection.
	lipgloss.SetColorProfile(termenv.ANSI256)

	promptStyle = makeStyle(promptColor).Bold(true)
	selectedStyle = makeStyle(selectedColor).Background(lipgloss.Color(selectedBg))
	suggestionStyle = makeStyle(suggestionColor)
	successStyle = makeStyle(successColor)
	errorStyle = makeStyle(errorColor)
	infoStyle = makeStyle(infoColor)
	mutedStyle = makeStyle(mutedColor)
	headerStyle = makeStyle(headerColor)
}

// makeStyle creates a lipgloss style from a color value.
// The value can be "bold" for bold styling, or an ANSI color number (0-255).
func makeStyle(value string) lipgloss.Style {
	if value == "bold" {
		return lipgloss.NewStyle().Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(value))
}

// Enabled returns whether styling is currently enabled.
func Enabled() bool {
	return enabled
}

// Prompt styles the shell prompt.
func Prompt(text string) string {
	if !enabled {
		return text
	}
	return promptStyle.Render(text)
}

// Selected styles the highlighted completion candidate.
func Selected(text string) string {
	if !enabled {
		return text
	}
	return selectedStyle.Render(text)
}

// Suggestion styles a completion candidate.
func Suggestion(text string) string {
	if !enabled {
		return text
	}
	return suggestionStyle.Render(text)
}

// Success styles text for successful operations.
func Success(text string) string {
	if !enabled {
		return text
	}
	return successStyle.Render(text)
}

// Error styles text for error messages.
func Error(text string) string {
	if !enabled {
		return text
	}
	return errorStyle.Render(text)
}

// Info styles text for informational messages.
func Info(text string) string {
	if !enabled {
		return text
	}
	return infoStyle.Render(text)
}

// Muted styles text for less important or secondary information.
func Muted(text string) string {
	if !enabled {
		return text
	}
	return mutedStyle.Render(text)
}

// Header styles text for section headers or titles.
func Header(text string) string {
	if !enabled {
		return text
	}
	return headerStyle.Render(text)
}
