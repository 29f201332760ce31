package keypad

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles of the keypad.
type Styles struct {
	App     lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Button  lipgloss.Style
	Pressed lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// DefaultStyles returns the default color scheme.
func DefaultStyles() Styles {
	highlight := lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	muted := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(highlight).
			Padding(0, 1).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}).
			Width(8),

		Button: lipgloss.NewStyle().
			Foreground(muted).
			Width(4).
			Align(lipgloss.Center),

		Pressed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(highlight).
			Bold(true).
			Width(4).
			Align(lipgloss.Center),

		Value: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),

		Help: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
	}
}
