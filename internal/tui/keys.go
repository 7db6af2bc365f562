package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Up       key.Binding
	Down     key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Reload   key.Binding
	Confirm  key.Binding
	Decline  key.Binding
	ListQuit key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel edit")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Decline:  key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "keep")),
	ListQuit: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}
