package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines a set of keybindings. To work for help it must satisfy
// key.Map.
type applicationKeyMap struct {
	Open        key.Binding
	Note        key.Binding
	Remove      key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	ToggleSort  key.Binding
	ToggleGroup key.Binding
	CycleTag    key.Binding
	CycleAud    key.Binding
	ClearAll    key.Binding
	Share       key.Binding
	Quit        key.Binding
}

func (k applicationKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Note, k.Remove, k.ToggleSort, k.ToggleGroup, k.ClearAll}
}

func (k applicationKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Note, k.Remove, k.Share},
		{k.ToggleSort, k.ToggleGroup, k.CycleTag, k.CycleAud},
		{k.MoveUp, k.MoveDown, k.ClearAll, k.Quit},
	}
}

// DefaultKeyMap returns a default set of keybindings.
func DefaultKeyMap() applicationKeyMap {
	return applicationKeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "v"),
			key.WithHelp("enter", "open"),
		),
		Note: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "memo"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x", "backspace"),
			key.WithHelp("x", "remove"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "move item up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "move item down"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "a-z/z-a"),
		),
		ToggleGroup: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "group by theme"),
		),
		CycleTag: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "next tag filter"),
		),
		CycleAud: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "next audience filter"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear all"),
		),
		Share: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "share link"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
