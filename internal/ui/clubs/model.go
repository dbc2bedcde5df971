// Package clubs renders the club directory with the popularity
// ranking and a join-request action.
package clubs

import (
	"context"
	"fmt"
	"io"
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

// LoadedMsg is sent when the club directory has been fetched.
type LoadedMsg struct {
	Clubs   []model.Club
	Popular []model.PopularClub
	Err     error
}

// JoinRequestedMsg is sent when a join request finished.
type JoinRequestedMsg struct {
	ClubID int
	Err    error
}

// DetailLoadedMsg is sent when a club detail fetch finished. A failed
// announcement or activity fetch degrades to an empty section.
type DetailLoadedMsg struct {
	Club          *model.Club
	Announcements []model.ClubAnnouncement
	Activities    []model.Activity
	Err           error
}

// Item wraps a model.Club so it can be used in a bubbles/list.
type Item struct {
	Club        model.Club
	MemberCount int
	Rank        int
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Club.Name }

// ItemDelegate implements list.ItemDelegate for rendering clubs.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single club line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	rank := "  "
	if it.Rank > 0 {
		rank = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorYellow).
			Render(fmt.Sprintf("#%d", it.Rank))
	}

	category := ""
	if it.Club.Category != nil {
		category = theme.CategoryStyle(model.CategoryGeneral).
			Render(it.Club.Category.Name)
	}

	members := ""
	if it.MemberCount > 0 {
		members = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf(" %d members", it.MemberCount))
	}

	line := fmt.Sprintf("%s %s%s%s", rank, it.Club.Name, category, members)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// Model is the club directory view component.
type Model struct {
	list    list.Model
	client  *api.Client
	keys    *keys.KeyMap
	spinner spinner.Model
	loading bool
	status  string
	width   int
	height  int

	detail        *model.Club
	announcements []model.ClubAnnouncement
	upcoming      []model.Activity
	detailLoading bool
}

// New creates a new club directory model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Clubs"
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

// Load returns a command that fetches the directory and the popularity
// ranking. A ranking failure degrades to the plain directory.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		clubs, err := client.ListClubs(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}

		popular, perr := client.PopularClubs(ctx)
		if perr != nil {
			popular = nil
		}
		return LoadedMsg{Clubs: clubs, Popular: popular}
	}
}

// Update handles messages for the club directory.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = "Failed to load clubs"
			return m, nil
		}
		m.status = ""
		cmd := m.list.SetItems(buildItems(msg.Clubs, msg.Popular))
		return m, cmd

	case JoinRequestedMsg:
		if msg.Err != nil {
			m.status = "Join request failed"
		} else {
			m.status = "Join request sent"
		}
		return m, nil

	case DetailLoadedMsg:
		m.detailLoading = false
		if msg.Err != nil {
			m.status = "Failed to load club details"
			return m, nil
		}
		m.detail = msg.Club
		m.announcements = msg.Announcements
		m.upcoming = msg.Activities
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

// buildItems orders the popularity ranking first, then the remaining
// clubs alphabetically as the server returned them.
func buildItems(clubs []model.Club, popular []model.PopularClub) []list.Item {
	ranked := make(map[int]bool, len(popular))
	items := make([]list.Item, 0, len(clubs))

	for i, p := range popular {
		ranked[p.ID] = true
		items = append(items, Item{
			Club:        p.Club,
			MemberCount: p.MemberCount,
			Rank:        i + 1,
		})
	}

	for _, c := range clubs {
		if ranked[c.ID] {
			continue
		}
		items = append(items, Item{Club: c, MemberCount: len(c.Members)})
	}

	return items
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
		clubID := item.Club.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			club, err := client.Club(ctx, clubID)
			if err != nil {
				return DetailLoadedMsg{Err: err}
			}
			announcements, aerr := client.ClubAnnouncements(ctx, clubID)
			if aerr != nil {
				announcements = nil
			}
			activities, acterr := client.ClubActivities(ctx, clubID)
			if acterr != nil {
				activities = nil
			}
			return DetailLoadedMsg{
				Club:          club,
				Announcements: announcements,
				Activities:    activities,
			}
		}

	case key.Matches(msg, m.keys.Back):
		if m.detail != nil || m.detailLoading {
			m.detail = nil
			m.announcements = nil
			m.upcoming = nil
			m.detailLoading = false
			return m, nil
		}

	case key.Matches(msg, m.keys.Register):
		clubID := 0
		if m.detail != nil {
			clubID = m.detail.ID
		} else if item, ok := m.list.SelectedItem().(Item); ok {
			clubID = item.Club.ID
		}
		if clubID == 0 {
			return m, nil
		}
		client := m.client
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return JoinRequestedMsg{
				ClubID: clubID,
				Err:    client.RequestJoinClub(ctx, clubID),
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

// View renders the club directory, or the detail panel when one is
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
			Render(m.spinner.View() + " Loading club...")
	}

	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading clubs...")
	}

	if len(m.list.Items()) == 0 {
		text := "No clubs registered."
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

	if m.status == "" {
		return m.list.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		theme.HelpStyle.Render(m.status),
		m.list.View(),
	)
}

// renderDetail draws one club with its announcement feed.
func (m Model) renderDetail() string {
	c := m.detail

	lines := []string{lipgloss.NewStyle().Bold(true).Render(c.Name)}
	if c.Category != nil {
		lines = append(lines,
			theme.CategoryStyle(model.CategoryGeneral).Render(c.Category.Name))
	}
	if len(c.Members) > 0 {
		lines = append(lines, fmt.Sprintf("%d members", len(c.Members)))
	}
	if c.Description != "" {
		lines = append(lines, "", c.Description)
	}

	if len(m.upcoming) > 0 {
		lines = append(lines, "",
			lipgloss.NewStyle().Bold(true).Render("Upcoming activities"))
		for _, a := range m.upcoming {
			when := lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Render(a.DateStart.Format("Jan 02 15:04"))
			lines = append(lines, fmt.Sprintf("• %s  %s", a.Title, when))
		}
	}

	if len(m.announcements) > 0 {
		lines = append(lines, "",
			lipgloss.NewStyle().Bold(true).Render("Announcements"))
		for _, a := range m.announcements {
			when := lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Render(a.CreatedAt.Format("Jan 02"))
			lines = append(lines, fmt.Sprintf("• %s  %s", a.Title, when))
			if a.Content != "" {
				lines = append(lines, "  "+a.Content)
			}
		}
	}

	if m.status != "" {
		lines = append(lines, "", theme.HelpStyle.Render(m.status))
	}
	lines = append(lines, "", theme.HelpStyle.Render("g request join | esc back"))

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
