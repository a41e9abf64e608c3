package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/report"
)

type UsersModel struct {
	store *datastore.Store

	table   table.Model
	users   []entity.User
	ratings map[string]report.ProviderRating

	status string
	err    error
}

func NewUsersModel(store *datastore.Store) UsersModel {
	m := UsersModel{
		store: store,
		table: newTable([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Email", Width: 26},
			{Title: "Role", Width: 9},
			{Title: "Phone", Width: 13},
			{Title: "Verified", Width: 8},
			{Title: "Approved", Width: 8},
			{Title: "Rating", Width: 10},
		}),
	}
	m.refresh()

	return m
}

func (m UsersModel) Title() string     { return "Users" }
func (m UsersModel) ShortHelp() string { return "Esc: back | a: approve/revoke" }

func (m UsersModel) Init() tea.Cmd {
	return nil
}

func (m UsersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindUsers, entity.KindReviews) {
			m.refresh()
		}
		return m, nil

	case actionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.done
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "a":
			return m, m.toggleApprovalCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m UsersModel) toggleApprovalCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.users) {
		return nil
	}

	u := m.users[idx]
	approve := !u.IsApproved

	done := fmt.Sprintf("%s approved.", u.FullName)
	if !approve {
		done = fmt.Sprintf("%s approval revoked.", u.FullName)
	}

	return action(done, func() error {
		return m.store.UpdateUserApproval(u.ID, approve)
	})
}

func (m *UsersModel) refresh() {
	m.users = m.store.Users()

	m.ratings = make(map[string]report.ProviderRating)
	for _, r := range report.ProviderRatings(m.store.Reviews()) {
		m.ratings[r.ProviderID] = r
	}

	rows := make([]table.Row, 0, len(m.users))
	for _, u := range m.users {
		rating := ""
		if r, ok := m.ratings[u.ID]; ok {
			rating = fmt.Sprintf("%s (%d)", r.Average.StringFixed(1), r.Count)
		}

		rows = append(rows, table.Row{
			u.FullName,
			u.Email,
			string(u.Role),
			u.Phone,
			FormatBool(u.IsVerified),
			FormatBool(u.IsApproved),
			rating,
		})
	}

	m.table.SetRows(rows)
}

func (m UsersModel) View() string {
	pending := 0
	for _, u := range m.users {
		if u.Role == entity.RoleProvider && !u.IsApproved {
			pending++
		}
	}

	header := fmt.Sprintf("%d users | %s providers awaiting approval", len(m.users), activeStyle(fmt.Sprint(pending)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		renderTable(m.table),
		helpText(m.ShortHelp()),
	)

	switch {
	case m.err != nil:
		content = errorText(m.err) + "\n" + content
	case m.status != "":
		content = statusText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
