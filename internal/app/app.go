// Package app wires the views, the notification hub, and the layout
// into the root Bubble Tea model.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"cems-client/internal/api"
	"cems-client/internal/cache"
	"cems-client/internal/keys"
	"cems-client/internal/model"
	"cems-client/internal/notify"
	"cems-client/internal/session"
	"cems-client/internal/theme"
	"cems-client/internal/ui"
	activitiesview "cems-client/internal/ui/activities"
	clubsview "cems-client/internal/ui/clubs"
	dashboardview "cems-client/internal/ui/dashboard"
	helpview "cems-client/internal/ui/help"
	loginview "cems-client/internal/ui/login"
	notificationsview "cems-client/internal/ui/notifications"
	reportsview "cems-client/internal/ui/reports"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewNotifications
	ViewActivities
	ViewClubs
	ViewReports
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing,
// layout, and the notification subscription.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	client       *api.Client
	hub          *notify.Hub
	cache        *cache.Cache
	sess         *session.Session
	logger       *zap.Logger
	keys         *keys.KeyMap

	sub      *notify.Subscription
	lastSnap notify.Snapshot
	profile  *model.User

	dashboard     dashboardview.Model
	notifications notificationsview.Model
	activities    activitiesview.Model
	clubs         clubsview.Model
	reports       reportsview.Model
	helpView      helpview.Model
	login         loginview.Model

	ready    bool
	loggedIn bool
}

// New creates the root application model. sess carries the stored
// credentials; a zero UserID means nobody is signed in yet and the
// login view is shown first.
func New(
	client *api.Client,
	hub *notify.Hub,
	c *cache.Cache,
	sess *session.Session,
	logger *zap.Logger,
) Model {
	k := keys.DefaultKeyMap()

	// A nil *cache.Cache must stay a nil interface for the views.
	var actCache activitiesview.ActivityCache
	if c != nil {
		actCache = c
	}

	m := Model{
		currentView: ViewLogin,
		client:      client,
		hub:         hub,
		cache:       c,
		sess:        sess,
		logger:      logger,
		keys:        k,
		dashboard:   dashboardview.New(client, k, 80, 24),
		activities:  activitiesview.New(client, actCache, k, 80, 24),
		clubs:       clubsview.New(client, k, 80, 24),
		reports:     reportsview.New(client, k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		login:       loginview.New(client, 80, 24),
	}

	if sess != nil && sess.UserID != 0 {
		m.loggedIn = true
		m.currentView = ViewDashboard
		m.sub = hub.Subscribe(sess.UserID)
		m.notifications = notificationsview.New(m.sub, k, 80, 24)
	}

	return m
}

// Init subscribes to the hub when a session exists, otherwise starts
// the login form.
func (m Model) Init() tea.Cmd {
	if !m.loggedIn {
		return m.login.Init()
	}
	return m.sessionCmds()
}

// startSession opens the hub subscription after a login and boots the
// views.
func (m *Model) startSession() tea.Cmd {
	m.sub = m.hub.Subscribe(m.sess.UserID)
	m.notifications = notificationsview.New(m.sub, m.keys, 80, 24)
	if m.ready {
		m.applySizes()
	}
	return m.sessionCmds()
}

// sessionCmds boots every signed-in view and arms the snapshot wait.
func (m Model) sessionCmds() tea.Cmd {
	return tea.Batch(
		m.dashboard.Init(),
		m.notifications.Init(),
		m.activities.Init(),
		m.clubs.Init(),
		m.reports.Init(),
		m.loadProfile(),
		m.waitForSnapshot(),
	)
}

// profileLoadedMsg carries the signed-in user's profile for the header.
type profileLoadedMsg struct {
	user *model.User
}

// loadProfile fetches the signed-in user's profile. A failure is
// harmless; the header just shows no name.
func (m Model) loadProfile() tea.Cmd {
	client := m.client
	userID := m.sess.UserID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		u, err := client.User(ctx, userID)
		if err != nil {
			return nil
		}
		return profileLoadedMsg{user: u}
	}
}

// waitForSnapshot blocks on the subscription channel and converts the
// next snapshot into a message. It is re-armed after every delivery.
func (m Model) waitForSnapshot() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		snap, ok := <-sub.C
		if !ok {
			return nil
		}
		return notificationsview.SnapshotMsg{Snapshot: snap}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.applySizes()
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case loginview.SucceededMsg:
		*m.sess = *msg.Session
		m.loggedIn = true
		m.currentView = ViewDashboard
		return m, m.startSession()

	case profileLoadedMsg:
		m.profile = msg.user
		return m, nil

	case notificationsview.SnapshotMsg:
		m.lastSnap = msg.Snapshot
		var cmd tea.Cmd
		m.notifications, cmd = m.notifications.Update(msg)
		return m, tea.Batch(cmd, m.waitForSnapshot())

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work regardless of the active
// view. Views with text input (login, report form) see keys first.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if m.currentView == ViewLogin {
		if msg.String() == "ctrl+c" {
			return true, m, tea.Quit
		}
		return false, m, nil
	}

	// The report form owns the keyboard while it is open.
	if m.currentView == ViewReports && m.reports.FormOpen() {
		if msg.String() == "ctrl+c" {
			return true, m, m.quit()
		}
		return false, m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return true, m, m.quit()

	case "q":
		return true, m, m.quit()

	case "L":
		return true, m, m.logout()

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}

	case "1":
		m.currentView = ViewDashboard
		return true, m, nil

	case "2":
		m.currentView = ViewNotifications
		return true, m, nil

	case "3":
		m.currentView = ViewActivities
		return true, m, nil

	case "4":
		m.currentView = ViewClubs
		return true, m, nil

	case "5":
		m.currentView = ViewReports
		return true, m, nil
	}

	return false, m, nil
}

// quit closes the hub subscription before leaving.
func (m Model) quit() tea.Cmd {
	if m.sub != nil {
		m.sub.Close()
	}
	return tea.Quit
}

// logout drops the stored credentials and exits. The next start shows
// the login form.
func (m Model) logout() tea.Cmd {
	if err := session.Clear(); err != nil {
		m.logger.Warn("clearing stored credentials failed", zap.Error(err))
	}
	return m.quit()
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewNotifications:
		m.notifications, cmd = m.notifications.Update(msg)
	case ViewActivities:
		m.activities, cmd = m.activities.Update(msg)
	case ViewClubs:
		m.clubs, cmd = m.clubs.Update(msg)
	case ViewReports:
		m.reports, cmd = m.reports.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// applySizes pushes the current layout dimensions to every view.
func (m *Model) applySizes() {
	w := m.layout.ContentWidth()
	h := m.layout.ContentHeight()
	m.dashboard.SetSize(w, h)
	if m.sub != nil {
		m.notifications.SetSize(w, h)
	}
	m.activities.SetSize(w, h)
	m.clubs.SetSize(w, h)
	m.reports.SetSize(w, h)
	m.helpView.SetSize(w, h)
	m.login.SetSize(w, h)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.login.View()
	}

	right := ui.Bell(m.lastSnap.Unread, m.lastSnap.Degraded)
	if m.profile != nil {
		right = m.profile.DisplayName() + "  " + right
	}
	header := m.layout.RenderHeader("CEMS", right)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDashboard:
		if banner := m.unreadBanner(); banner != "" {
			return lipgloss.JoinVertical(lipgloss.Left, banner, m.dashboard.View())
		}
		return m.dashboard.View()
	case ViewNotifications:
		return m.notifications.View()
	case ViewActivities:
		return m.activities.View()
	case ViewClubs:
		return m.clubs.View()
	case ViewReports:
		return m.reports.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// unreadBanner renders the newest unread notification as a one-line
// banner for the home view. Snapshots are newest first, so the first
// unread record is the latest one.
func (m Model) unreadBanner() string {
	for _, n := range m.lastSnap.Notifications {
		if n.IsRead {
			continue
		}
		return theme.UnreadStyle.Render("🔔 " + n.Message + "  ") +
			theme.HelpStyle.Render("(2 to open notifications)")
	}
	return ""
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewNotifications:
		return "m mark read | M mark all | r refresh | 1-5 views | q quit"
	case ViewActivities:
		return "enter details | g register | r refresh | 1-5 views | q quit"
	case ViewClubs:
		return "enter club detail | g request join | r refresh | 1-5 views | q quit"
	case ViewReports:
		return "n new report | x delete | r refresh | 1-5 views | q quit"
	default:
		return "1 dashboard | 2 notifications | 3 activities | 4 clubs | 5 reports | L log out | ? help | q quit"
	}
}
