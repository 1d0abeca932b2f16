package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"todoclient/internal/config"
)

type KeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Add       key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Edit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	Focus     key.Binding
}

func NewKeyMap(k config.Keymap) KeyMap {
	return KeyMap{
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
		Quit:      key.NewBinding(key.WithKeys(k.Quit), key.WithHelp(label(k.Quit), "quit")),
		Add:       key.NewBinding(key.WithKeys(k.Add), key.WithHelp(label(k.Add), "add")),
		Up:        key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(label(k.Up)+"/↑", "up")),
		Down:      key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(label(k.Down)+"/↓", "down")),
		Toggle:    key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp(label(k.Toggle), "toggle")),
		Delete:    key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(label(k.Delete), "delete")),
		Edit:      key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(label(k.Edit), "edit")),
		Confirm:   key.NewBinding(key.WithKeys(k.Confirm), key.WithHelp(label(k.Confirm), "save")),
		Cancel:    key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(label(k.Cancel), "cancel")),
		Focus:     key.NewBinding(key.WithKeys(k.Focus), key.WithHelp(label(k.Focus), "switch")),
	}
}

func label(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func renderHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
