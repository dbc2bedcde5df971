// Package activities renders the activity catalog and the registration
// flow.
package activities

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/api"
	"cems-client/internal/keys"
	"cems-client/internal/model"
	"cems-client/internal/theme"
)

// LoadedMsg is sent when the activity list has been fetched.
type LoadedMsg struct {
	Activities []model.Activity
	FromCache  bool
	Err        error
}

// RegisteredMsg is sent when a registration attempt finished.
type RegisteredMsg struct {
	ActivityID int
	Err        error
}

// DetailLoadedMsg is sent when an activity detail fetch finished. The
// detail record carries the status, club, and registrations preloaded.
type DetailLoadedMsg struct {
	Activity *model.Activity
	Err      error
}

// ActivityCache reads and writes the offline activity snapshot.
type ActivityCache interface {
	UpsertActivities(ctx context.Context, activities []model.Activity) error
	Activities(ctx context.Context) ([]model.Activity, error)
}

// Item wraps a model.Activity so it can be used in a bubbles/list.
type Item struct {
	Activity model.Activity
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Activity.Title }

// ItemDelegate implements list.ItemDelegate for rendering activities.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single activity line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	a := it.Activity

	status := model.ActivityStatusOpen
	if a.Status != nil {
		status = strings.ToLower(a.Status.Name)
	}
	statusBadge := theme.ActivityStatusStyle(status).Render(status)

	date := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(a.DateStart.Format("Jan 02 15:04"))

	capacity := ""
	if a.Capacity > 0 {
		capacity = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(fmt.Sprintf(" %d spots", a.SpotsLeft()))
	}

	line := fmt.Sprintf("%s %s @ %s %s%s", statusBadge, a.Title, a.Location, date, capacity)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the activity catalog view component.
type Model struct {
	list    list.Model
	client  *api.Client
	cache   ActivityCache
	keys    *keys.KeyMap
	spinner spinner.Model
	loading bool
	offline bool
	status  string
	width   int
	height  int

	detail        *model.Activity
	detailLoading bool
}

// New creates a new activity catalog model. cache may be nil.
func New(client *api.Client, cache ActivityCache, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Activities"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		list:    l,
		client:  client,
		cache:   cache,
		keys:    k,
		spinner: sp,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init kicks off the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Load returns a command that fetches the activity list, falling back
// to the offline cache when the network fails.
func (m Model) Load() tea.Cmd {
	client := m.client
	cache := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		activities, err := client.ListActivities(ctx)
		if err == nil {
			if cache != nil {
				// Cache writes are best effort.
				_ = cache.UpsertActivities(ctx, activities)
			}
			return LoadedMsg{Activities: activities}
		}

		if cache != nil {
			cached, cerr := cache.Activities(ctx)
			if cerr == nil && len(cached) > 0 {
				return LoadedMsg{Activities: cached, FromCache: true, Err: err}
			}
		}
		return LoadedMsg{Err: err}
	}
}

// Update handles messages for the activity catalog.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		m.offline = msg.FromCache
		if msg.Err != nil && !msg.FromCache {
			m.status = "Failed to load activities"
			return m, nil
		}
		m.status = ""
		items := make([]list.Item, len(msg.Activities))
		for i, a := range msg.Activities {
			items[i] = Item{Activity: a}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case RegisteredMsg:
		if msg.Err != nil {
			m.status = "Registration failed"
			return m, nil
		}
		m.status = "Registered!"
		return m, m.Load()

	case DetailLoadedMsg:
		m.detailLoading = false
		if msg.Err != nil {
			m.status = "Failed to load activity details"
			return m, nil
		}
		m.detail = msg.Activity
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

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		m.detailLoading = true
		client := m.client
		id := item.Activity.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			a, err := client.Activity(ctx, id)
			return DetailLoadedMsg{Activity: a, Err: err}
		}

	case key.Matches(msg, m.keys.Back):
		if m.detail != nil || m.detailLoading {
			m.detail = nil
			m.detailLoading = false
			return m, nil
		}

	case key.Matches(msg, m.keys.Register):
		activityID := 0
		if m.detail != nil {
			activityID = m.detail.ID
		} else if item, ok := m.list.SelectedItem().(Item); ok {
			activityID = item.Activity.ID
		}
		if activityID == 0 {
			return m, nil
		}
		client := m.client
		userID := client.Session().UserID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return RegisteredMsg{
				ActivityID: activityID,
				Err:        client.Register(ctx, userID, activityID),
			}
		}

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.Load())
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the activity catalog, or the detail panel when one is
// open.
func (m Model) View() string {
	if m.detail != nil {
		return m.renderDetail()
	}

	if m.detailLoading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading details...")
	}

	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading activities...")
	}

	if len(m.list.Items()) == 0 {
		text := "No activities scheduled."
		if m.status != "" {
			text = m.status + "\n\n" + theme.HelpStyle.Render("press r to retry")
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(text)
	}

	var banners []string
	if m.offline {
		banners = append(banners,
			theme.DegradedStyle.Render("Showing cached activities (offline)"))
	}
	if m.status != "" {
		banners = append(banners, theme.HelpStyle.Render(m.status))
	}

	if len(banners) == 0 {
		return m.list.View()
	}

	parts := append(banners, m.list.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDetail draws the full record for one activity.
func (m Model) renderDetail() string {
	a := m.detail

	status := model.ActivityStatusOpen
	if a.Status != nil {
		status = strings.ToLower(a.Status.Name)
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(a.Title),
		theme.ActivityStatusStyle(status).Render(status),
		"",
		fmt.Sprintf("When:  %s to %s",
			a.DateStart.Format("Mon Jan 02 15:04"),
			a.DateEnd.Format("15:04")),
		"Where: " + a.Location,
	}
	if a.Club != nil {
		lines = append(lines, "Club:  "+a.Club.Name)
	}
	if a.Capacity > 0 {
		lines = append(lines, fmt.Sprintf(
			"Spots: %d of %d left", a.SpotsLeft(), a.Capacity,
		))
	}
	if a.Description != "" {
		lines = append(lines, "", a.Description)
	}
	if m.status != "" {
		lines = append(lines, "", theme.HelpStyle.Render(m.status))
	}
	lines = append(lines, "", theme.HelpStyle.Render("g register | esc back"))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
