package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings of the dialogs and the progress view.
type keyMap struct {
	Quit  key.Binding
	Enter key.Binding
	Back  key.Binding
	Yes   key.Binding
	No    key.Binding
	Left  key.Binding
	Right key.Binding
	Tab   key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n", "cancel"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
	),
}

// confirmHelpKeyMap is shown under the confirmation dialog.
type confirmHelpKeyMap struct{}

func (confirmHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Yes, keys.No, keys.Enter, keys.Back}
}

func (k confirmHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// progressHelpKeyMap is shown under the progress view.
type progressHelpKeyMap struct{}

func (progressHelpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Quit}
}

func (k progressHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
