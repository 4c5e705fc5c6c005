package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Logs       key.Binding
	Escape     key.Binding

	// Parameters
	NextRover   key.Binding
	PrevRover   key.Binding
	PickRover   key.Binding
	SolUp       key.Binding
	SolDown     key.Binding
	SolStepUp   key.Binding
	SolStepDown key.Binding
	Refresh     key.Binding

	// Navigation
	NextSection key.Binding
	PrevSection key.Binding
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log view"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close overlay"),
		),

		NextRover: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Next rover"),
		),
		PrevRover: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Previous rover"),
		),
		PickRover: key.NewBinding(
			key.WithKeys("1", "2", "3", "4"),
			key.WithHelp("1-4", "Select rover"),
		),
		SolUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Sol +1"),
		),
		SolDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Sol -1"),
		),
		SolStepUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "Sol +100"),
		),
		SolStepDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "Sol -100"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Refresh"),
		),

		NextSection: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next section"),
		),
		PrevSection: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous section"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("ctrl+u", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("ctrl+d", "Page down"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextRover, k.PrevRover, k.PickRover, k.SolUp, k.SolDown, k.SolStepUp, k.SolStepDown, k.Refresh},
		{k.NextSection, k.PrevSection, k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
