package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Help     key.Binding
	Add      key.Binding
	Delete   key.Binding
	Yes      key.Binding
	No       key.Binding
	Reload   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit},
		{k.Up, k.Down, k.Yes, k.No, k.Add, k.Delete, k.Reload, k.Help},
	}
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      bind("tab", "switch view", "tab"),
		ShiftTab: bind("shift+tab", "switch view", "shift+tab"),
		Quit:     bind("q", "quit", "q", "ctrl+c"),
		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		Help:     bind("?", "toggle help", "?"),
		Add:      bind("a", "add action", "a"),
		Delete:   bind("d", "delete action", "d"),
		Yes:      bind("y", "done today", "y"),
		No:       bind("n", "skipped today", "n"),
		Reload:   bind("r", "reload", "r"),
	}
}
