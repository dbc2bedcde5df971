// Package notifications renders the notification center: the live,
// newest-first list fed by the hub, with per-item and bulk mark-read
// actions.
package notifications

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/keys"
	"cems-client/internal/notify"
	"cems-client/internal/theme"
)

// SnapshotMsg carries the latest notification state from the hub.
type SnapshotMsg struct {
	Snapshot notify.Snapshot
}

// markDoneMsg is sent after a mark-read request finished. The list
// itself updates through the next SnapshotMsg; this only clears the
// in-flight flag.
type markDoneMsg struct {
	ok bool
}

// Model is the notification center view component.
type Model struct {
	list     list.Model
	sub      *notify.Subscription
	keys     *keys.KeyMap
	spinner  spinner.Model
	snap     notify.Snapshot
	seeded   bool
	inFlight bool
	width    int
	height   int
}

// New creates a new notification center model.
func New(sub *notify.Subscription, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		list:    l,
		sub:     sub,
		keys:    k,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init starts the loading spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the notification center.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.seeded = true
		items := make([]list.Item, len(m.snap.Notifications))
		for i, n := range m.snap.Notifications {
			items[i] = Item{Notification: n}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case markDoneMsg:
		m.inFlight = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the notification center.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.MarkRead):
		item, ok := m.list.SelectedItem().(Item)
		if !ok || item.Notification.IsRead || m.inFlight {
			return m, nil
		}
		m.inFlight = true
		sub := m.sub
		id := item.Notification.ID
		return m, func() tea.Msg {
			return markDoneMsg{ok: sub.MarkAsRead(id)}
		}

	case key.Matches(msg, m.keys.MarkAllRead):
		if m.snap.Unread == 0 || m.inFlight {
			return m, nil
		}
		m.inFlight = true
		sub := m.sub
		return m, func() tea.Msg {
			return markDoneMsg{ok: sub.MarkAllAsRead()}
		}

	case key.Matches(msg, m.keys.Refresh):
		m.sub.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the notification center.
func (m Model) View() string {
	if !m.seeded || (m.snap.Loading && len(m.snap.Notifications) == 0) {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading notifications...")
	}

	if m.snap.Err != "" && len(m.snap.Notifications) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(
				theme.ErrorStyle.Render(m.snap.Err) +
					"\n\n" + theme.HelpStyle.Render("press r to retry"),
			)
	}

	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications yet.")
	}

	var banners []string
	if m.snap.Err != "" {
		banners = append(banners, theme.ErrorStyle.Render(m.snap.Err))
	}
	if m.snap.Degraded {
		banners = append(banners,
			theme.DegradedStyle.Render("Connection trouble, retrying in the background"))
	}

	if len(banners) == 0 {
		return m.list.View()
	}

	parts := append(banners, m.list.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Unread returns the unread count from the latest snapshot.
func (m Model) Unread() int {
	return m.snap.Unread
}
