package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

// New hires start active with this performance score.
const startingPerformance = 70

var employeeStatusCycle = []entity.EmployeeStatus{
	entity.EmployeeActive,
	entity.EmployeeOnLeave,
	entity.EmployeeInactive,
}

func nextEmployeeStatus(s entity.EmployeeStatus) entity.EmployeeStatus {
	for i, st := range employeeStatusCycle {
		if st == s {
			return employeeStatusCycle[(i+1)%len(employeeStatusCycle)]
		}
	}

	return entity.EmployeeActive
}

type employeeFields struct {
	userID     string
	position   string
	department string
	salary     string
	hireDate   string
	skills     string
}

func (f *employeeFields) payload() (entity.EmployeePayload, error) {
	salary, err := parseWhole(f.salary)
	if err != nil {
		return entity.EmployeePayload{}, fmt.Errorf("salary %q: %w", f.salary, err)
	}

	hired, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(f.hireDate), time.Local)
	if err != nil {
		return entity.EmployeePayload{}, fmt.Errorf("hire date %q: %w", f.hireDate, err)
	}

	return entity.EmployeePayload{
		UserID:      f.userID,
		Position:    strings.TrimSpace(f.position),
		Department:  strings.TrimSpace(f.department),
		Salary:      salary,
		HireDate:    hired,
		Skills:      splitList(f.skills),
		Status:      entity.EmployeeActive,
		Performance: startingPerformance,
	}, nil
}

type EmployeesModel struct {
	store *datastore.Store

	table     table.Model
	employees []entity.Employee

	form   *huh.Form
	fields *employeeFields

	status string
	err    error
}

func NewEmployeesModel(store *datastore.Store) EmployeesModel {
	m := EmployeesModel{
		store: store,
		table: newTable([]table.Column{
			{Title: "Name", Width: 20},
			{Title: "Position", Width: 18},
			{Title: "Department", Width: 14},
			{Title: "Salary", Width: 18},
			{Title: "Hired", Width: 11},
			{Title: "Status", Width: 9},
			{Title: "Perf.", Width: 5},
		}),
	}
	m.refresh()

	return m
}

func (m EmployeesModel) Title() string { return "Employees" }
func (m EmployeesModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: save | Esc: cancel"
	}
	return "Esc: back | n: new | t: cycle status"
}

func (m EmployeesModel) Init() tea.Cmd {
	return nil
}

func (m EmployeesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindEmployees, entity.KindUsers) {
			m.refresh()
		}
		return m, nil

	case actionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.done
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.openForm()
		case "t":
			return m, m.cycleStatusCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m EmployeesModel) cycleStatusCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.employees) {
		return nil
	}

	e := m.employees[idx]
	next := nextEmployeeStatus(e.Status)

	return action(fmt.Sprintf("%s is now %s.", e.Position, next), func() error {
		return m.store.UpdateEmployeeStatus(e.ID, next)
	})
}

func (m EmployeesModel) openForm() (tea.Model, tea.Cmd) {
	var staff []huh.Option[string]
	for _, u := range m.store.Users() {
		if u.Role != entity.RoleAdmin {
			staff = append(staff, huh.NewOption(u.FullName, u.ID))
		}
	}

	fields := &employeeFields{hireDate: time.Now().Format("2006-01-02")}

	m.fields = fields
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("User").Options(staff...).Value(&fields.userID),
			huh.NewInput().Title("Position").Value(&fields.position).Validate(required("position")),
			huh.NewInput().Title("Department").Value(&fields.department).Validate(required("department")),
			huh.NewInput().Title("Monthly Salary (Toman)").Value(&fields.salary).Validate(positiveNumber("salary")),
			huh.NewInput().Title("Hire Date").Placeholder("2006-01-02").Value(&fields.hireDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use the form YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().Title("Skills").Description("Comma separated").Value(&fields.skills),
		),
	).WithWidth(58).WithShowHelp(false)
	m.table.Blur()

	return m, m.form.Init()
}

func (m EmployeesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd, state := stepForm(m.form, msg)
	m.form = form

	switch state {
	case huh.StateAborted:
		m.form = nil
		m.table.Focus()
		return m, nil
	case huh.StateCompleted:
		m.form = nil
		m.table.Focus()

		fields := m.fields
		return m, action("Employee added.", func() error {
			p, err := fields.payload()
			if err != nil {
				return err
			}
			_, err = m.store.AddEmployee(p)
			return err
		})
	}

	return m, cmd
}

func (m *EmployeesModel) refresh() {
	m.employees = m.store.Employees()

	names := make(map[string]string)
	for _, u := range m.store.Users() {
		names[u.ID] = u.FullName
	}

	rows := make([]table.Row, 0, len(m.employees))
	for _, e := range m.employees {
		rows = append(rows, table.Row{
			names[e.UserID],
			e.Position,
			e.Department,
			FormatAmount(e.Salary),
			FormatDate(e.HireDate),
			string(e.Status),
			FormatCount(e.Performance),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m EmployeesModel) View() string {
	active := 0
	for _, e := range m.employees {
		if e.Status == entity.EmployeeActive {
			active++
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("%d employees | %d active", len(m.employees), active)),
		renderTable(m.table),
		helpText(m.ShortHelp()),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New Employee", m.form))
	}

	switch {
	case m.err != nil:
		content = errorText(m.err) + "\n" + content
	case m.status != "":
		content = statusText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
