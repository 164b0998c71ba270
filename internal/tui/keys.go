package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the global key bindings
type keyMap struct {
	Up            key.Binding
	Down          key.Binding
	Select        key.Binding
	Back          key.Binding
	Filter        key.Binding
	Search        key.Binding
	Tab           key.Binding
	Continue      key.Binding
	Watchlist     key.Binding
	MarkWatched   key.Binding
	ClearProgress key.Binding
	Comment       key.Binding
	Like          key.Binding
	Genre         key.Binding
	Refresh       key.Binding
	Quit          key.Binding
}

var keys = keyMap{
	Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Search:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
	Tab:           key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Continue:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue watching")),
	Watchlist:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "toggle watchlist")),
	MarkWatched:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark watched")),
	ClearProgress: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear progress")),
	Comment:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add comment")),
	Like:          key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like comment")),
	Genre:         key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "cycle genre")),
	Refresh:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
