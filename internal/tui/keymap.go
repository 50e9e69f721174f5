package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Next  key.Binding
	Prev  key.Binding

	// Lists
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refresh key.Binding
	Switch  key.Binding

	// Forms
	Toggle key.Binding
	Submit key.Binding
	Back   key.Binding

	// Modals
	Yes key.Binding
	No  key.Binding

	// Application
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("Shift+Tab/↑", "previous field"),
		),

		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("Enter/e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "categories/entries"),
		),

		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("Space", "toggle"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),

		Yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/Enter", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/Esc", "no"),
		),

		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ListKeys is the help shown on list screens.
type ListKeys struct{ KeyMap }

// ShortHelp returns key bindings for the short help view.
func (k ListKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.Switch, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k ListKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.New, k.Edit, k.Delete, k.Refresh},
		{k.Switch, k.Help, k.Quit, k.ForceQuit},
	}
}

// FormKeys is the help shown on form screens.
type FormKeys struct{ KeyMap }

// ShortHelp returns key bindings for the short help view.
func (k FormKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Back, k.Help}
}

// FullHelp returns all key bindings for the full help view.
func (k FormKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Left, k.Right, k.Toggle},
		{k.Submit, k.Back, k.Help, k.ForceQuit},
	}
}
