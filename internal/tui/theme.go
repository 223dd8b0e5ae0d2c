package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette for the plugrel prompt theme.
var (
	accentPrimary  = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#818cf8"}
	accentBright   = lipgloss.AdaptiveColor{Light: "#6366f1", Dark: "#a5b4fc"}
	textStrong     = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"}
	textNormal     = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
	textMuted      = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	borderFocused  = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#6366f1"}
	buttonBg       = lipgloss.AdaptiveColor{Light: "#4f46e5", Dark: "#6366f1"}
	buttonBgIdle   = lipgloss.AdaptiveColor{Light: "#e5e7eb", Dark: "#374151"}
	buttonText     = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#ffffff"}
	buttonTextIdle = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#d1d5db"}
)

// currentTheme holds the configured prompt theme.
// When nil, currentThemeOrDefault() returns plugrelTheme().
var currentTheme *huh.Theme

// SetTheme sets the current theme by name.
// Empty or unknown names select the plugrel theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
	if name == DefaultTheme {
		currentTheme = nil
	}
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return plugrelTheme()
	}
	return currentTheme
}

func resetTheme() {
	currentTheme = nil
}

// plugrelTheme is huh's base theme recolored with the plugrel palette.
func plugrelTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderFocused).
		PaddingLeft(1)
	t.Focused.Title = t.Focused.Title.Foreground(accentPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(textMuted)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(buttonText).
		Background(buttonBg).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(buttonTextIdle).
		Background(buttonBgIdle).
		Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	t.Help.ShortKey = t.Help.ShortKey.Foreground(accentBright)
	t.Help.ShortDesc = t.Help.ShortDesc.Foreground(textNormal)
	t.Help.ShortSeparator = t.Help.ShortSeparator.Foreground(textMuted)
	t.Help.FullKey = t.Help.FullKey.Foreground(accentBright)
	t.Help.FullDesc = t.Help.FullDesc.Foreground(textNormal)
	t.Help.FullSeparator = t.Help.FullSeparator.Foreground(textMuted)

	t.Focused.NoteTitle = t.Focused.NoteTitle.Foreground(textStrong)
	return t
}
