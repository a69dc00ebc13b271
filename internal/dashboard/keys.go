package dashboard

import "github.com/charmbracelet/bubbles/key"

// browseKeys holds key bindings for the contact browser.
type browseKeys struct {
	Up      key.Binding
	Down    key.Binding
	Sort    key.Binding
	Tab     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Sort},
		{k.Tab, k.Refresh, k.Help, k.Quit},
	}
}

// BrowseKeyMap returns the key bindings for the contact browser.
// sortByLast switches the sort binding's label.
func BrowseKeyMap(sortByLast bool) browseKeys {
	sortHelp := "sort by last name"
	if sortByLast {
		sortHelp = "insertion order"
	}
	return browseKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", sortHelp),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
