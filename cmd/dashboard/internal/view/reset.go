package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
)

// ResetModel asks before wiping every stored key and reseeding the demo data.
// With a cause set it acts as the recovery screen for unreadable data, and
// declining quits instead of returning to the menu.
type ResetModel struct {
	store *datastore.Store
	cause error

	form    *huh.Form
	confirm *bool
	busy    bool
	err     error
}

func NewResetModel(store *datastore.Store, cause error) ResetModel {
	m := ResetModel{
		store:   store,
		cause:   cause,
		confirm: new(false),
	}

	title := "Reset demo data?"
	if cause != nil {
		title = "Stored data could not be loaded. Reset to demo data?"
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("Every collection and the current session will be removed.").
				Affirmative("Reset").
				Negative("Cancel").
				Value(m.confirm),
		),
	).WithWidth(60).WithShowHelp(false)

	return m
}

func (m ResetModel) Title() string     { return "Reset" }
func (m ResetModel) ShortHelp() string { return "←/→: choose | Enter: confirm" }

func (m ResetModel) Init() tea.Cmd {
	return m.form.Init()
}

type resetDoneMsg struct {
	err error
}

func (m ResetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(resetDoneMsg); ok {
		m.busy = false
		if done.err != nil {
			m.err = done.err
			return m, nil
		}
		return m, func() tea.Msg { return LoggedOutMsg{} }
	}

	if m.busy || m.err != nil {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, m.decline()
		}
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !*m.confirm {
		return m, m.decline()
	}

	m.busy = true

	return m, func() tea.Msg {
		return resetDoneMsg{err: m.store.ResetDemoData()}
	}
}

func (m ResetModel) decline() tea.Cmd {
	if m.cause != nil {
		return tea.Quit
	}
	return Back
}

func (m ResetModel) View() string {
	parts := []string{}

	if m.cause != nil {
		parts = append(parts, errorText(m.cause), "")
	}

	switch {
	case m.busy:
		parts = append(parts, statusText("Resetting..."))
	case m.err != nil:
		parts = append(parts, errorText(m.err), "", helpText("Esc: leave"))
	default:
		parts = append(parts, m.form.View(), "", helpText(m.ShortHelp()))
	}

	return lipgloss.NewStyle().Padding(2).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
