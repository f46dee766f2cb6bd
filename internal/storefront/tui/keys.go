package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next  key.Binding
	Back  key.Binding
	Field key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "shift+tab"),
			key.WithHelp("esc", "back"),
		),
		Field: key.NewBinding(
			key.WithKeys("tab", "down", "up"),
			key.WithHelp("tab", "next field"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Back, k.Field, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
