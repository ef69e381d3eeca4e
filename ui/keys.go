package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send     key.Binding
	YankLast key.Binding
	YankAll  key.Binding
	Help     key.Binding
	Close    key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Send")),
		YankLast: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("Ctrl+Y", "Copy last reply")),
		YankAll:  key.NewBinding(key.WithKeys("alt+y"), key.WithHelp("Alt+Y", "Copy conversation")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "Help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Close")),
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "Up")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "Down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "Page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "Page down")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("Ctrl+C", "Quit")),
	}
}
