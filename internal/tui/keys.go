package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Open    key.Binding
	Filter  key.Binding
	Delete  key.Binding
	Convert key.Binding
	Target  key.Binding
	Hidden  key.Binding
	Refresh key.Binding
	Escape  key.Binding
	Quit    key.Binding
	Yes     key.Binding
	No      key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Enter:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "enter dir")),
	Back:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "back")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Convert: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "convert")),
	Target:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set target")),
	Hidden:  key.NewBinding(key.WithKeys("."), key.WithHelp(".", "hidden")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear/cancel")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	No:      key.NewBinding(key.WithKeys("n", "N"), key.WithHelp("n", "no")),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Back, k.Filter, k.Convert, k.Delete, k.Target, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.Open, k.Filter, k.Escape},
		{k.Convert, k.Delete, k.Target},
		{k.Hidden, k.Refresh, k.Quit},
	}
}
