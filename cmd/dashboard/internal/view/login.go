package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/session"
)

// loginFields lives on the heap so the form's bindings survive model copies.
type loginFields struct {
	email    string
	password string
}

type LoginModel struct {
	sessions *session.Store
	appName  string

	form   *huh.Form
	fields *loginFields

	busy    bool
	message string
	err     error
}

func NewLoginModel(sessions *session.Store, appName string) LoginModel {
	m := LoginModel{
		sessions: sessions,
		appName:  appName,
		fields:   &loginFields{},
	}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) Title() string     { return "Sign In" }
func (m LoginModel) ShortHelp() string { return "Enter: sign in | ctrl+c: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Placeholder("admin@mechanico.ir").
				Value(&m.fields.email).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("email cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fields.password),
		),
	).WithWidth(45).WithShowHelp(false)
}

type loginResultMsg struct {
	result session.Result
	err    error
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		m.busy = false
		m.err = res.err
		m.message = ""

		if res.err == nil && res.result.OK() {
			return m, func() tea.Msg { return LoggedInMsg{User: res.result.User} }
		}

		if res.err == nil {
			m.message = res.result.Message
		}

		m.fields.password = ""
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if m.busy {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.busy = true
	email := strings.TrimSpace(m.fields.email)
	password := m.fields.password

	return m, func() tea.Msg {
		res, err := m.sessions.Login(email, password)
		return loginResultMsg{result: res, err: err}
	}
}

func (m LoginModel) View() string {
	header := lipgloss.NewStyle().Bold(true).Render(m.appName)

	parts := []string{header, "", m.form.View()}

	switch {
	case m.busy:
		parts = append(parts, "", statusText("Signing in..."))
	case m.err != nil:
		parts = append(parts, "", errorText(m.err))
	case m.message != "":
		parts = append(parts, "", lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.message))
	}

	return lipgloss.NewStyle().Padding(2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
