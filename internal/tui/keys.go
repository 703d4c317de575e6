package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the keybindings shared by the prompts.
type keyMap struct {
	Quit  key.Binding
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Diff  key.Binding
	Skip  key.Binding
	Pick  key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "abort"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("k/up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("j/down", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Diff: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "show diff"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s", "esc"),
		key.WithHelp("s", "skip"),
	),
	Pick: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "pick"),
	),
}

// choiceHelpKeyMap is shown under a choice prompt.
type choiceHelpKeyMap struct {
	allowDiff bool
	allowSkip bool
}

func (k choiceHelpKeyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{keys.Up, keys.Down, keys.Pick, keys.Enter}
	if k.allowDiff {
		bindings = append(bindings, keys.Diff)
	}
	if k.allowSkip {
		bindings = append(bindings, keys.Skip)
	}
	return append(bindings, keys.Quit)
}

func (k choiceHelpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
