package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

type InvoiceModel struct {
	store *datastore.Store

	table    table.Model
	invoices []entity.Invoice

	status string
	err    error
}

func NewInvoiceModel(store *datastore.Store) InvoiceModel {
	m := InvoiceModel{
		store: store,
		table: newTable([]table.Column{
			{Title: "Number", Width: 14},
			{Title: "Customer", Width: 18},
			{Title: "Date", Width: 11},
			{Title: "Due", Width: 11},
			{Title: "Items", Width: 6},
			{Title: "Total", Width: 16},
			{Title: "Status", Width: 10},
		}),
	}
	m.refresh()

	return m
}

func (m InvoiceModel) Title() string { return "Invoices" }
func (m InvoiceModel) ShortHelp() string {
	return "Esc: back | p: mark paid | s: mark sent | o: mark overdue | x: cancel | m: mark past due overdue"
}

func (m InvoiceModel) Init() tea.Cmd {
	return nil
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindInvoices, entity.KindUsers) {
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
		case "p":
			return m, m.setStatusCmd(entity.InvoicePaid)
		case "s":
			return m, m.setStatusCmd(entity.InvoiceSent)
		case "o":
			return m, m.setStatusCmd(entity.InvoiceOverdue)
		case "x":
			return m, m.setStatusCmd(entity.InvoiceCancelled)
		case "m":
			return m, m.markOverdueCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InvoiceModel) setStatusCmd(status entity.InvoiceStatus) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	inv := m.invoices[idx]

	return action(fmt.Sprintf("Invoice %s marked %s.", inv.InvoiceNumber, status), func() error {
		return m.store.UpdateInvoiceStatus(inv.ID, status)
	})
}

// markOverdueCmd moves every sent invoice past its due date to overdue.
func (m InvoiceModel) markOverdueCmd() tea.Cmd {
	return func() tea.Msg {
		n, err := m.store.MarkOverdueInvoices()
		if err != nil {
			return actionMsg{err: err}
		}

		if n == 0 {
			return actionMsg{done: "No sent invoices are past due."}
		}

		return actionMsg{done: fmt.Sprintf("%d invoices marked overdue.", n)}
	}
}

func (m *InvoiceModel) refresh() {
	m.invoices = m.store.Invoices()

	names := make(map[string]string)
	for _, u := range m.store.Users() {
		names[u.ID] = u.FullName
	}

	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.InvoiceNumber,
			names[inv.CustomerID],
			FormatDate(inv.Date),
			FormatDate(inv.DueDate),
			FormatCount(len(inv.Items)),
			FormatAmount(inv.Total),
			string(inv.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoiceModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("%d invoices", len(m.invoices))),
		renderTable(m.table),
		m.detail(),
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

// detail breaks down the selected invoice.
func (m InvoiceModel) detail() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return ""
	}

	inv := m.invoices[idx]

	var sb strings.Builder

	for _, it := range inv.Items {
		fmt.Fprintf(&sb, "  %-30s %3d x %s = %s\n", it.Description, it.Quantity, FormatAmount(it.UnitPrice), FormatAmount(it.Total))
	}

	fmt.Fprintf(&sb, "  subtotal %s | tax %s | discount %s | total %s",
		FormatAmount(inv.Subtotal), FormatAmount(inv.Tax), FormatAmount(inv.Discount), FormatAmount(inv.Total))

	return lipgloss.NewStyle().PaddingTop(1).Render(sb.String())
}
