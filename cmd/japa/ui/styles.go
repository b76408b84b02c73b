// Package ui provides the interactive counter screen for japa.
// Uses a saffron palette with light/dark mode support.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#3b2412")
	LightPrimary    = lipgloss.Color("#c2410c") // Saffron
	LightMuted      = lipgloss.Color("#a89583")
	LightBorder     = lipgloss.Color("#e7d8c5")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f5ede4")
	DarkPrimary    = lipgloss.Color("#fb923c")
	DarkMuted      = lipgloss.Color("#7c6a5a")
	DarkBorder     = lipgloss.Color("#4a3a2e")
	DarkCard       = lipgloss.Color("#2a1f18")

	// Semantic Colors (same in both modes)
	Success = lipgloss.Color("#8BC34A")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// hasDarkBackground queries the terminal; swapped in tests.
var hasDarkBackground = lipgloss.HasDarkBackground

// DetectTheme honors JAPA_DARK_MODE (1/true or 0/false) and otherwise asks
// the terminal for its background color.
func DetectTheme() Theme {
	switch os.Getenv("JAPA_DARK_MODE") {
	case "1", "true":
		return DarkTheme()
	case "0", "false":
		return LightTheme()
	}
	if hasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeFor resolves a configured theme name; anything but light or dark auto-detects.
func ThemeFor(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	App     lipgloss.Style
	Header  lipgloss.Style
	Counter lipgloss.Style
	Pulse   lipgloss.Style
	Mantra  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Card    lipgloss.Style
	Banner  lipgloss.Style
	Muted   lipgloss.Style
	SoundOn lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Counter: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Pulse: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary),

		Mantra: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Value: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Card: lipgloss.NewStyle().
			Background(theme.Card).
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border),

		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			Bold(true).
			Padding(0, 2),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		SoundOn: lipgloss.NewStyle().
			Foreground(Success),
	}
}
