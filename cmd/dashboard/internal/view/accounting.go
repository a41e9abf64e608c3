package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/export"
	"github.com/MrJamesThe3rd/mechanico/internal/report"
)

type accountingState int

const (
	accountingStateSummary accountingState = iota
	accountingStatePath
	accountingStateExporting
	accountingStateResult
	accountingStateExpense
)

var (
	expenseCategories = []string{"قطعات", "اجاره", "برق و آب", "حقوق", "نگهداری", "سایر"}
	paymentMethods    = []string{"نقدی", "کارت بانکی", "چک", "انتقال بانکی"}
)

type expenseFields struct {
	category      string
	description   string
	amount        string
	paymentMethod string
}

// payload dates the expense at now, the moment it is recorded.
func (f *expenseFields) payload(now time.Time) (entity.ExpensePayload, error) {
	amount, err := parseWhole(f.amount)
	if err != nil || amount == 0 {
		return entity.ExpensePayload{}, fmt.Errorf("amount %q must be greater than zero", f.amount)
	}

	return entity.ExpensePayload{
		Category:      f.category,
		Description:   strings.TrimSpace(f.description),
		Amount:        amount,
		Date:          now,
		PaymentMethod: f.paymentMethod,
	}, nil
}

// AccountingModel shows the headline figures and exports the reports.
type AccountingModel struct {
	store         *datastore.Store
	exportService *export.Service

	state   accountingState
	err     error
	form    *huh.Form
	path    *string
	expense *expenseFields
	status  string
	spinner spinner.Model
	summary string
}

func NewAccountingModel(store *datastore.Store, svc *export.Service) AccountingModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AccountingModel{
		store:         store,
		exportService: svc,
		state:         accountingStateSummary,
		path:          new("./exports"),
		spinner:       s,
	}
}

func (m AccountingModel) Title() string { return "Accounting & Reports" }

func (m AccountingModel) ShortHelp() string {
	switch m.state {
	case accountingStateResult:
		return "Esc: back to summary"
	case accountingStateExporting:
		return "Exporting..."
	case accountingStatePath, accountingStateExpense:
		return "Esc: cancel | Enter: confirm"
	}
	return "Esc: back | n: record expense | e: export CSV and PDFs"
}

func (m AccountingModel) Init() tea.Cmd {
	return nil
}

func (m AccountingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case accountingStateSummary:
		return m.updateSummary(msg)
	case accountingStatePath:
		return m.updatePath(msg)
	case accountingStateExporting:
		return m.updateExporting(msg)
	case accountingStateResult:
		return m.updateResult(msg)
	case accountingStateExpense:
		return m.updateExpense(msg)
	}

	return m, nil
}

func (m AccountingModel) updateSummary(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "e":
			m.form = m.buildPathForm()
			m.state = accountingStatePath
			return m, m.form.Init()
		case "n":
			m.expense = &expenseFields{}
			m.form = m.buildExpenseForm(m.expense)
			m.state = accountingStateExpense
			return m, m.form.Init()
		}
	}

	if result, ok := msg.(actionMsg); ok {
		m.err = result.err
		if result.err == nil {
			m.status = result.done
		}
	}

	return m, nil
}

func (m AccountingModel) updateExpense(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, state := stepForm(m.form, msg)
	m.form = form

	switch state {
	case huh.StateAborted:
		m.state = accountingStateSummary
		return m, nil
	case huh.StateCompleted:
		m.state = accountingStateSummary

		fields := m.expense
		return m, action("Expense recorded.", func() error {
			p, err := fields.payload(time.Now())
			if err != nil {
				return err
			}
			_, err = m.store.AddExpense(p)
			return err
		})
	}

	return m, cmd
}

func (m AccountingModel) buildExpenseForm(fields *expenseFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Category").Options(huh.NewOptions(expenseCategories...)...).Value(&fields.category),
			huh.NewInput().Title("Description").Value(&fields.description).Validate(required("description")),
			huh.NewInput().Title("Amount (Toman)").Value(&fields.amount).Validate(positiveNumber("amount")),
			huh.NewSelect[string]().Title("Payment Method").Options(huh.NewOptions(paymentMethods...)...).Value(&fields.paymentMethod),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AccountingModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = accountingStateSummary
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = accountingStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(strings.TrimSpace(*m.path)))
}

func (m AccountingModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = accountingStateResult
		m.err = result.err
		m.summary = result.body
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m AccountingModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = accountingStateSummary
			m.err = nil
			return m, nil
		}
	}
	return m, nil
}

func (m AccountingModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AccountingModel) View() string {
	switch m.state {
	case accountingStateSummary:
		return lipgloss.NewStyle().Padding(1).Render(m.viewSummary())

	case accountingStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case accountingStateExpense:
		return lipgloss.NewStyle().Padding(1).Render(formPanel("Record Expense", m.form))

	case accountingStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing reports and invoice PDFs...", m.spinner.View()),
		)

	case accountingStateResult:
		return m.viewResult()
	}

	return ""
}

func (m AccountingModel) viewSummary() string {
	snap := m.store.Snapshot()
	o := report.Overview(snap)
	acc := o.Accounting

	bold := lipgloss.NewStyle().Bold(true)

	var lines []string

	switch {
	case m.err != nil:
		lines = append(lines, errorText(m.err), "")
	case m.status != "":
		lines = append(lines, statusText(m.status), "")
	}

	lines = append(lines,
		bold.Render("Accounting"),
		fmt.Sprintf("  Income (paid)      %s", FormatAmount(acc.TotalIncome)),
		fmt.Sprintf("  Expenses           %s", FormatAmount(acc.TotalExpenses)),
		fmt.Sprintf("  Net profit         %s", FormatAmount(acc.NetProfit)),
		fmt.Sprintf("  Pending payments   %s", FormatAmount(acc.PendingPayments)),
		"",
		bold.Render("Monthly"),
	)

	for _, mt := range report.Monthly(snap.Invoices, snap.Expenses, time.Local) {
		lines = append(lines, fmt.Sprintf("  %d %-9s  income %s | expenses %s | profit %s",
			mt.Year, mt.Month, FormatAmount(mt.Income), FormatAmount(mt.Expenses), FormatAmount(mt.Profit)))
	}

	lines = append(lines,
		"",
		bold.Render("Overview"),
		fmt.Sprintf("  Bookings           %d (%d completed)", o.TotalBookings, o.CompletedBookings),
		fmt.Sprintf("  Completed revenue  %s", FormatAmount(o.CompletedRevenue)),
		fmt.Sprintf("  Users              %d (%d customers)", o.TotalUsers, o.TotalCustomers),
		fmt.Sprintf("  Average rating     %s from %d reviews", o.AverageRating.StringFixed(1), o.ReviewCount),
		fmt.Sprintf("  Repeat customers   %d%%", o.RepeatRate),
		"",
		bold.Render("Popular services"),
	)

	for _, sc := range o.TopServices {
		lines = append(lines, fmt.Sprintf("  %-28s %d", sc.Name, sc.Count))
	}

	lines = append(lines, "", helpText(m.ShortHelp()))

	return strings.Join(lines, "\n")
}

func (m AccountingModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorText(m.err))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			"Summary:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

func (m AccountingModel) runExportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		items, err := m.exportService.Export(path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{body: m.exportService.GenerateSummary(items)}
	}
}
