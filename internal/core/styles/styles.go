package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    color.Color
	ColorSecondary  color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// Pane chrome.
	PaneBorderStyle        lipgloss.Style
	PaneBorderFocusedStyle lipgloss.Style
	PaneTitleStyle         lipgloss.Style
	PaneTitleFocusedStyle  lipgloss.Style

	// Source pane gutter.
	LineNumberStyle lipgloss.Style
	GutterSepStyle  lipgloss.Style

	// Status bar.
	StatusBarStyle     lipgloss.Style
	StatusFileStyle    lipgloss.Style
	StatusPercentStyle lipgloss.Style
	StatusSyncedStyle  lipgloss.Style
	StatusMutedStyle   lipgloss.Style

	// Help footer and CLI output.
	HelpKeyStyle       lipgloss.Style
	HelpDescStyle      lipgloss.Style
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
)

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	PaneBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted)
	PaneBorderFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PaneTitleStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PaneTitleFocusedStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	LineNumberStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	GutterSepStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)
	StatusFileStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorPrimary).
		Bold(true)
	StatusPercentStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorSecondary)
	StatusSyncedStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorSuccess)
	StatusMutedStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	HelpDescStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
}
