// Package dashboard renders the stat cards and the participation
// charts as terminal bar graphs.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/api"
	"cems-client/internal/keys"
	"cems-client/internal/model"
	"cems-client/internal/theme"
)

// LoadedMsg is sent when the dashboard data has been fetched.
type LoadedMsg struct {
	Stats         *model.DashboardStats
	Participation *model.ChartSeries
	Hours         *model.ChartSeries
	Featured      []model.Activity
	Err           error
}

// Model is the dashboard view component.
type Model struct {
	client        *api.Client
	keys          *keys.KeyMap
	spinner       spinner.Model
	stats         *model.DashboardStats
	participation *model.ChartSeries
	hours         *model.ChartSeries
	featured      []model.Activity
	loading       bool
	errText       string
	width         int
	height        int
}

// New creates a new dashboard model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
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

// Load returns a command that fetches the stats and both chart series.
// A chart failure degrades to the stat cards alone.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		stats, err := client.DashboardStats(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}

		participation, perr := client.ParticipationChart(ctx)
		if perr != nil {
			participation = nil
		}
		hoursSeries, herr := client.ActivityHoursChart(ctx)
		if herr != nil {
			hoursSeries = nil
		}
		featured, ferr := client.FeaturedActivities(ctx)
		if ferr != nil {
			featured = nil
		}

		return LoadedMsg{
			Stats:         stats,
			Participation: participation,
			Hours:         hoursSeries,
			Featured:      featured,
		}
	}
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.errText = "Failed to load dashboard"
			return m, nil
		}
		m.errText = ""
		m.stats = msg.Stats
		m.participation = msg.Participation
		m.hours = msg.Hours
		m.featured = msg.Featured
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Refresh) {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.Load())
		}
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading dashboard...")
	}

	if m.errText != "" {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(
				theme.ErrorStyle.Render(m.errText) +
					"\n\n" + theme.HelpStyle.Render("press r to retry"),
			)
	}

	sections := []string{m.renderStats()}
	if len(m.featured) > 0 {
		sections = append(sections, m.renderFeatured())
	}
	if m.participation != nil {
		sections = append(sections,
			m.renderChart("Monthly participation", m.participation))
	}
	if m.hours != nil {
		sections = append(sections,
			m.renderChart("Activity hours", m.hours))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderStats draws the stat cards in a single row.
func (m Model) renderStats() string {
	if m.stats == nil {
		return ""
	}

	cards := []string{
		statCard("Activities",
			fmt.Sprintf("%d", m.stats.TotalActivities),
			m.stats.Growth.Activities),
		statCard("Participants",
			fmt.Sprintf("%d", m.stats.TotalParticipants),
			m.stats.Growth.Participants),
		statCard("Hours",
			fmt.Sprintf("%.1f", m.stats.TotalHours),
			m.stats.Growth.Hours),
		statCard("Rating",
			fmt.Sprintf("%.1f", m.stats.AverageRating),
			m.stats.Growth.Rating),
		statCard("Registrations",
			fmt.Sprintf("%d", m.stats.TotalRegistrations),
			m.stats.Growth.Registrations),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// statCard draws one bordered card with a value and its growth arrow.
func statCard(label, value string, growth float64) string {
	arrow := "→"
	color := theme.ColorGray
	switch {
	case growth > 0:
		arrow = "↑"
		color = theme.ColorGreen
	case growth < 0:
		arrow = "↓"
		color = theme.ColorRed
	}

	growthLine := lipgloss.NewStyle().
		Foreground(color).
		Render(fmt.Sprintf("%s %.1f%%", arrow, growth))

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		theme.HelpStyle.Render(label),
		lipgloss.NewStyle().Bold(true).Render(value),
		growthLine,
	)

	return theme.BorderStyle.Padding(0, 1).Margin(0, 1, 0, 0).Render(content)
}

// renderFeatured draws the highlighted upcoming activities.
func (m Model) renderFeatured() string {
	rows := []string{
		"",
		lipgloss.NewStyle().Bold(true).Render("Featured activities"),
	}
	for _, a := range m.featured {
		when := lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(a.DateStart.Format("Jan 02 15:04"))
		rows = append(rows, fmt.Sprintf("• %s  %s  @ %s", a.Title, when, a.Location))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderChart draws a labelled series as horizontal bars scaled to the
// available width.
func (m Model) renderChart(title string, series *model.ChartSeries) string {
	if len(series.Labels) == 0 || len(series.Data) == 0 {
		return ""
	}

	max := series.Data[0]
	for _, v := range series.Data {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}

	labelWidth := 0
	for _, l := range series.Labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	barSpace := m.width - labelWidth - 16
	if barSpace < 10 {
		barSpace = 10
	}

	var rows []string
	for i, label := range series.Labels {
		if i >= len(series.Data) {
			break
		}
		v := series.Data[i]
		barLen := int(v / max * float64(barSpace))
		bar := lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(strings.Repeat("█", barLen))
		rows = append(rows, fmt.Sprintf(
			"%-*s %s %.1f", labelWidth, label, bar, v,
		))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		"",
		lipgloss.NewStyle().Bold(true).Render(title),
		strings.Join(rows, "\n"),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
