package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Count key.Binding
	Reset key.Binding
	Sound key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Count: key.NewBinding(
			key.WithKeys(" ", "space", "enter", "j"),
			key.WithHelp("space", "count"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset session"),
		),
		Sound: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sound"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Count, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Count, k.Reset, k.Sound},
		{k.Help, k.Quit},
	}
}
