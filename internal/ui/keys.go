package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"studyplan/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Up             key.Binding
	Down           key.Binding
	Add            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Detail         key.Binding
	PriorityUp     key.Binding
	PriorityDown   key.Binding
	DueForward     key.Binding
	DueBack        key.Binding
	FilterPriority key.Binding
	FilterStatus   key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	ForceQuit      key.Binding
}

func displayKey(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func bind(k, desc string, extra ...string) key.Binding {
	keys := append([]string{k}, extra...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(displayKey(k), desc))
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           bind(k.Quit, "quit", "ctrl+c"),
		Up:             bind(k.Up, "up", "up"),
		Down:           bind(k.Down, "down", "down"),
		Add:            bind(k.Add, "add"),
		Edit:           bind(k.Edit, "edit"),
		Toggle:         bind(k.Toggle, "toggle"),
		Delete:         bind(k.Delete, "delete"),
		Detail:         bind(k.Detail, "detail"),
		PriorityUp:     bind(k.PriorityUp, "priority+"),
		PriorityDown:   bind(k.PriorityDown, "priority-"),
		DueForward:     bind(k.DueForward, "due+1d"),
		DueBack:        bind(k.DueBack, "due-1d"),
		FilterPriority: bind(k.FilterPriority, "filter priority"),
		FilterStatus:   bind(k.FilterStatus, "filter status"),
		Confirm:        bind(k.Confirm, "confirm", "enter"),
		Cancel:         bind(k.Cancel, "cancel", "esc"),
		ForceQuit:      key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.Edit, k.Toggle, k.Delete, k.FilterPriority, k.FilterStatus, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Detail},
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.PriorityUp, k.PriorityDown, k.DueForward, k.DueBack},
		{k.FilterPriority, k.FilterStatus, k.Quit},
	}
}
