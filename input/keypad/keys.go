package keypad

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the keypad.
type KeyMap struct {
	HatUp    key.Binding
	HatDown  key.Binding
	HatLeft  key.Binding
	HatRight key.Binding

	StickUp    key.Binding
	StickDown  key.Binding
	StickLeft  key.Binding
	StickRight key.Binding

	RStickUp    key.Binding
	RStickDown  key.Binding
	RStickLeft  key.Binding
	RStickRight key.Binding

	// Buttons[i] toggles button i+1.
	Buttons []key.Binding

	Center key.Binding
	Quit   key.Binding
	Help   key.Binding
}

// buttonKeys are the keys of buttons 1-16, in order.
var buttonKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "z", "x", "c", "v", "b", "n"}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	k := KeyMap{
		HatUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "hat up")),
		HatDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "hat down")),
		HatLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "hat left")),
		HatRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "hat right")),

		StickUp:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "Y-")),
		StickDown:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Y+")),
		StickLeft:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "X-")),
		StickRight: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "X+")),

		RStickUp:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "Rz-")),
		RStickDown:  key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "Rz+")),
		RStickLeft:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j", "Z-")),
		RStickRight: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "Z+")),

		Center: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "release all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
	for _, s := range buttonKeys {
		k.Buttons = append(k.Buttons, key.NewBinding(key.WithKeys(s), key.WithHelp(s, "button")))
	}
	return k
}

// ShortHelp returns keybindings to show in the help view (horizontal).
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.HatUp, k.StickUp, k.Center, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.HatUp, k.HatDown, k.HatLeft, k.HatRight},
		{k.StickUp, k.StickDown, k.StickLeft, k.StickRight},
		{k.RStickUp, k.RStickDown, k.RStickLeft, k.RStickRight},
		{k.Buttons[0], k.Buttons[10], k.Center, k.Help, k.Quit},
	}
}
