// Package keymap holds the TUI key bindings and their help groups.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap is every binding the ask view reacts to. Keys that would clash
// with typing a question (letters, "?") are never bound.
type KeyMap struct {
	Quit       key.Binding
	Ask        key.Binding
	Clear      key.Binding
	Sources    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Help       key.Binding

	// PrevQuestion and NextQuestion walk the questions asked so far.
	PrevQuestion key.Binding
	NextQuestion key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:         bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),
		Ask:          bind("enter", "ask", "enter"),
		Clear:        bind("esc", "clear", "esc"),
		Sources:      bind("tab", "sources", "tab"),
		ScrollUp:     bind("pgup", "scroll up", "pgup", "ctrl+u"),
		ScrollDown:   bind("pgdn", "scroll down", "pgdown", "ctrl+f"),
		Help:         bind("f1", "help", "f1"),
		PrevQuestion: bind("↑", "previous question", "up", "ctrl+p"),
		NextQuestion: bind("↓", "next question", "down", "ctrl+n"),
	}
}

// ShortHelp returns the bindings shown before the first answer.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Help, k.Quit}
}

// AnswerHelp returns the bindings shown once an answer is displayed.
func (k *KeyMap) AnswerHelp() []key.Binding {
	return []key.Binding{k.Ask, k.Sources, k.ScrollDown, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Ask, k.Clear, k.PrevQuestion, k.NextQuestion},
		{k.Sources, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit},
	}
}

// Matches reports whether keyStr is one of binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
