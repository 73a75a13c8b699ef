package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	search     key.Binding
	add        key.Binding
	edit       key.Binding
	delete     key.Binding
	filter     key.Binding
	difficulty key.Binding
	retry      key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		add:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		delete:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		difficulty: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		retry:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.search, k.add, k.edit},
		{k.delete, k.filter, k.difficulty, k.back},
		{k.retry, k.quit},
	}
}
