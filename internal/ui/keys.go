package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/dori/donelist/internal/ui/views"
)

// KeyMap defines all keybindings for the application
type KeyMap struct {
	List views.ListKeyMap

	// General
	Help       key.Binding
	ThemeCycle key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		List: views.DefaultListKeyMap(),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		ThemeCycle: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns short help bindings (for status bar)
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.List.Add, k.List.Toggle, k.List.Edit, k.List.Delete,
		k.List.FilterCycle, k.List.Clear, k.Help, k.Quit,
	}
}

// FullHelp returns full help bindings (for help view)
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.List.Up, k.List.Down, k.List.Top, k.List.Bottom},
		{k.List.Add, k.List.Edit, k.List.Toggle, k.List.Delete},
		{k.List.FilterAll, k.List.FilterPending, k.List.FilterCompleted, k.List.FilterCycle},
		{k.List.Clear, k.List.Reload, k.ThemeCycle},
		{k.Help, k.Quit},
	}
}
