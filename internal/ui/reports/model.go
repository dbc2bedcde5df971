// Package reports renders the report listing and the generation form.
package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/api"
	"cems-client/internal/keys"
	"cems-client/internal/model"
	"cems-client/internal/theme"
)

const pageSize = 20

// LoadedMsg is sent when a page of reports has been fetched.
type LoadedMsg struct {
	List *model.ReportList
	Err  error
}

// GeneratedMsg is sent when a generation request finished.
type GeneratedMsg struct {
	Err error
}

// DeletedMsg is sent when a delete request finished.
type DeletedMsg struct {
	ID  string
	Err error
}

// Item wraps a model.Report so it can be used in a bubbles/list.
type Item struct {
	Report model.Report
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Report.Name }

// ItemDelegate implements list.ItemDelegate for rendering reports.
type ItemDelegate struct{}

func (d ItemDelegate) Height() int  { return 1 }
func (d ItemDelegate) Spacing() int { return 0 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single report line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	r := it.Report
	statusBadge := theme.ReportStatusStyle(r.Status).Render(r.Status)
	typeLabel := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(r.Type)
	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(r.GeneratedAt)

	line := fmt.Sprintf("%s %s %s  %s", statusBadge, r.Name, typeLabel, when)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	reportType string
	period     string
	format     string
}

// Model is the report view component.
type Model struct {
	list     list.Model
	client   *api.Client
	keys     *keys.KeyMap
	spinner  spinner.Model
	form     *huh.Form
	fb       *formBindings
	filter   api.ReportFilter
	page     int
	total    int
	loading  bool
	status   string
	width    int
	height   int
}

// New creates a new report view model.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Reports"
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
		fb:      &formBindings{},
		page:    1,
		loading: true,
		width:   width,
		height:  height,
	}
}

// Init kicks off the initial fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Load returns a command that fetches the current page.
func (m Model) Load() tea.Cmd {
	client := m.client
	page := m.page
	filter := m.filter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		list, err := client.ListReports(ctx, page, pageSize, filter)
		return LoadedMsg{List: list, Err: err}
	}
}

// Update handles messages for the report view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = "Failed to load reports"
			return m, nil
		}
		m.status = ""
		m.total = msg.List.Total
		m.list.Title = fmt.Sprintf("Reports (%d)", m.total)
		items := make([]list.Item, len(msg.List.Reports))
		for i, r := range msg.List.Reports {
			items[i] = Item{Report: r}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case GeneratedMsg:
		if msg.Err != nil {
			m.status = "Report generation failed"
			return m, nil
		}
		m.status = "Report requested"
		return m, m.Load()

	case DeletedMsg:
		if msg.Err != nil {
			m.status = "Delete failed"
			return m, nil
		}
		m.status = ""
		return m, m.Load()

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

// updateForm routes messages to the generation form while it is open.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		req := model.ReportRequest{
			Type:   m.fb.reportType,
			Period: m.fb.period,
			Format: m.fb.format,
			UserID: m.client.Session().UserID,
		}
		m.form = nil
		client := m.client
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return GeneratedMsg{Err: client.GenerateReport(ctx, req)}
		}
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NewReport):
		m.fb.reportType = "activity"
		m.fb.period = "month"
		m.fb.format = "pdf"
		m.form = m.buildForm()
		return m, m.form.Init()

	case key.Matches(msg, m.keys.DeleteReport):
		item, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		client := m.client
		id := item.Report.ID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return DeletedMsg{ID: id, Err: client.DeleteReport(ctx, id)}
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

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report type").
				Options(
					huh.NewOption("Activity summary", "activity"),
					huh.NewOption("Club membership", "membership"),
					huh.NewOption("Participation hours", "hours"),
				).
				Value(&m.fb.reportType),
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("This week", "week"),
					huh.NewOption("This month", "month"),
					huh.NewOption("This semester", "semester"),
					huh.NewOption("This year", "year"),
				).
				Value(&m.fb.period),
			huh.NewSelect[string]().
				Title("Format").
				Options(
					huh.NewOption("PDF", "pdf"),
					huh.NewOption("Excel", "xlsx"),
					huh.NewOption("CSV", "csv"),
				).
				Value(&m.fb.format),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// View renders the report view.
func (m Model) View() string {
	if m.form != nil {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1)
		content := titleStyle.Render("Generate Report") + "\n" + m.form.View()
		return lipgloss.NewStyle().Padding(1, 2).Render(content)
	}

	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + " Loading reports...")
	}

	if len(m.list.Items()) == 0 {
		text := "No reports yet.\n\n" + theme.HelpStyle.Render("press n to generate one")
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

// FormOpen reports whether the generation form is currently shown.
// The root model avoids intercepting text input while it is.
func (m Model) FormOpen() bool {
	return m.form != nil
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
