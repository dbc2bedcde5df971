// Package login renders the credential form and exchanges the entered
// credentials for a stored session.
package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"cems-client/internal/api"
	"cems-client/internal/model"
	"cems-client/internal/session"
	"cems-client/internal/theme"
)

// SucceededMsg is dispatched after the session has been persisted.
type SucceededMsg struct {
	Session *session.Session
	User    model.User
}

// failedMsg carries a login failure back into the form.
type failedMsg struct {
	err error
}

// storeFailedMsg reports that the backend accepted the credentials but
// the session could not be persisted to the system keyring.
type storeFailedMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	identifier string
	password   string
}

// Model is the login view component.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	client   *api.Client
	busy     bool
	errText  string
	width    int
	height   int
}

// New creates a new login model. The client is expected to carry no
// session yet.
func New(client *api.Client, width, height int) Model {
	fb := &formBindings{}
	m := Model{
		fb:     fb,
		client: client,
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init initializes the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case failedMsg:
		m.busy = false
		if api.IsAuthError(msg.err) {
			m.errText = "Invalid credentials"
		} else {
			m.errText = "Login failed, check the server address"
		}
		m.form = m.buildForm()
		return m, m.form.Init()

	case storeFailedMsg:
		m.busy = false
		m.errText = "Signed in, but saving credentials to the keyring failed"
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if m.busy {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, tea.Quit
	}

	return m, cmd
}

// submit exchanges the entered credentials for a token and persists
// the session in the system keyring.
func (m Model) submit() tea.Cmd {
	client := m.client
	in := api.LoginInput{
		Identifier: strings.TrimSpace(m.fb.identifier),
		Password:   m.fb.password,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := client.Login(ctx, in)
		if err != nil {
			return failedMsg{err: err}
		}

		sess := &session.Session{UserID: resp.User.ID, Token: resp.Token}
		if err := sess.Save(); err != nil {
			return storeFailedMsg{err: err}
		}

		return SucceededMsg{Session: sess, User: resp.User}
	}
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email or student ID").
				Value(&m.fb.identifier).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("identifier is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("password is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// View renders the login form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{titleStyle.Render("Sign in to CEMS")}
	if m.errText != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errText))
	}
	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("Signing in..."))
	} else {
		parts = append(parts, m.form.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.DetailPanelStyle.Render(content))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
