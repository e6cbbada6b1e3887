package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the reader colour palette. The defaults echo the
// platform's parchment-and-amber book styling.
type Theme struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#D97706"), // amber
		Foreground: lipgloss.Color("#E7DFC6"), // parchment
		Muted:      lipgloss.Color("#8A7F66"),
		Accent:     lipgloss.Color("#F59E0B"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#6B5D3F"),
	}
}

// Styles contains pre-configured lipgloss styles for the reader.
type Styles struct {
	theme *Theme

	// Title styles the Work title on the cover page.
	Title lipgloss.Style

	// Author styles the author byline.
	Author lipgloss.Style

	// Header styles the page header (chapter title, page numbers).
	Header lipgloss.Style

	// PageText styles the book body text.
	PageText lipgloss.Style

	// Muted styles secondary text.
	Muted lipgloss.Style

	// Selected styles the highlighted table-of-contents entry.
	Selected lipgloss.Style

	// Error styles load-failure messages.
	Error lipgloss.Style

	// Help styles the controls footer.
	Help lipgloss.Style

	// Page draws the page border.
	Page lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Author: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Muted),

		Header: lipgloss.NewStyle().
			Foreground(theme.Muted),

		PageText: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Page: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 3),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}
