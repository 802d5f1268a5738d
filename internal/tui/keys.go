package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the browser key bindings.
type KeyMap struct {
	Search     key.Binding
	Status     key.Binding
	Next       key.Binding
	Previous   key.Binding
	First      key.Binding
	Last       key.Binding
	Jump       key.Binding
	Up         key.Binding
	Down       key.Binding
	Delete     key.Binding
	Reload     key.Binding
	ClearAll   key.Binding
	Help       key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	EndSearch  key.Binding
	AbortInput key.Binding
}

// DefaultKeyMap returns the browser bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Next:     key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "next page")),
		Previous: key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "prev page")),
		First:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "first page")),
		Last:     key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last page")),
		Jump: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to shown page"),
		),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		ClearAll:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filters")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		EndSearch:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		AbortInput: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Status, k.Next, k.Previous, k.Delete, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Status, k.ClearAll},
		{k.Next, k.Previous, k.First, k.Last, k.Jump},
		{k.Up, k.Down, k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}
