package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit / Logout
	Back   key.Binding
	Quit   key.Binding
	Logout key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// Tab switching
	Dashboard     key.Binding
	Notifications key.Binding
	Activities    key.Binding
	Clubs         key.Binding
	Reports       key.Binding

	// Notification actions
	MarkRead    key.Binding
	MarkAllRead key.Binding

	// Activity actions
	Register key.Binding

	// Report actions
	NewReport    key.Binding
	DeleteReport key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "dashboard"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "notifications"),
		),
		Activities: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "activities"),
		),
		Clubs: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "clubs"),
		),
		Reports: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "reports"),
		),
		MarkRead: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark read"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mark all read"),
		),
		Register: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "register"),
		),
		NewReport: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new report"),
		),
		DeleteReport: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete report"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Refresh,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Dashboard, k.Notifications, k.Activities, k.Clubs, k.Reports},
		{k.MarkRead, k.MarkAllRead, k.Register},
		{k.NewReport, k.DeleteReport, k.Refresh, k.Help, k.Logout},
	}
}
