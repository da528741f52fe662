package review

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Reset   key.Binding
	Detail  key.Binding
	Apply   key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "include/exclude")),
		Next:    key.NewBinding(key.WithKeys("c", "right"), key.WithHelp("c", "next category")),
		Prev:    key.NewBinding(key.WithKeys("C", "left"), key.WithHelp("C", "previous category")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset overrides")),
		Detail:  key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "notes")),
		Apply:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply moves")),
		Confirm: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Detail, k.Apply, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},
		{k.Toggle, k.Next, k.Prev, k.Reset},
		{k.Apply, k.Help, k.Quit},
	}
}
