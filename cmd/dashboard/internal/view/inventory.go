package view

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/importer"
	"github.com/MrJamesThe3rd/mechanico/internal/report"
)

type inventoryState int

const (
	inventoryStateBrowse inventoryState = iota
	inventoryStateImport
	inventoryStateImporting
)

type InventoryModel struct {
	store         *datastore.Store
	importService *importer.Service

	state    inventoryState
	table    table.Model
	items    []entity.InventoryItem
	lowOnly  bool
	form     *huh.Form
	filePath *string

	status string
	err    error
}

func NewInventoryModel(store *datastore.Store, impSvc *importer.Service) InventoryModel {
	m := InventoryModel{
		store:         store,
		importService: impSvc,
		filePath:      new(""),
		table: newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Category", Width: 14},
			{Title: "Qty", Width: 6},
			{Title: "Min", Width: 6},
			{Title: "Unit Price", Width: 16},
			{Title: "Location", Width: 14},
			{Title: "Restocked", Width: 11},
			{Title: "", Width: 3},
		}),
	}
	m.refresh()

	return m
}

func (m InventoryModel) Title() string { return "Inventory" }
func (m InventoryModel) ShortHelp() string {
	if m.state == inventoryStateImport {
		return "Enter: import | Esc: cancel"
	}
	return "Esc: back | +/-: adjust quantity | l: low stock only | i: import CSV"
}

func (m InventoryModel) Init() tea.Cmd {
	return nil
}

type importDoneMsg struct {
	count int
	err   error
}

func (m InventoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindInventory) {
			m.refresh()
		}
		return m, nil

	case actionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.done
		}
		return m, nil

	case importDoneMsg:
		m.state = inventoryStateBrowse
		m.form = nil
		m.table.Focus()
		m.err = msg.err
		m.status = fmt.Sprintf("Imported %d items.", msg.count)
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 12)
		return m, nil
	}

	switch m.state {
	case inventoryStateBrowse:
		return m.updateBrowse(msg)
	case inventoryStateImport:
		return m.updateImport(msg)
	}

	return m, nil
}

func (m InventoryModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "+", "=":
			return m, m.adjustCmd(1)
		case "-":
			return m, m.adjustCmd(-1)
		case "l":
			m.lowOnly = !m.lowOnly
			m.refresh()
			return m, nil
		case "i":
			return m.enterImport()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InventoryModel) adjustCmd(delta int) tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	item := m.items[idx]

	return action(fmt.Sprintf("%s adjusted by %+d.", item.Name, delta), func() error {
		return m.store.AdjustInventoryQuantity(item.ID, delta)
	})
}

func (m InventoryModel) enterImport() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV File").
				Description("Exported inventory reports and Persian spreadsheets are both accepted").
				Placeholder("./inventory.csv").
				Value(m.filePath).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path cannot be empty")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = inventoryStateImport
	m.table.Blur()

	return m, m.form.Init()
}

func (m InventoryModel) updateImport(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = inventoryStateBrowse
		m.form = nil
		m.table.Focus()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = inventoryStateImporting

	return m, m.importCmd(strings.TrimSpace(*m.filePath))
}

func (m InventoryModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: fmt.Errorf("opening file: %w", err)}
		}
		defer f.Close()

		n, err := m.importService.ImportInto(importer.FormatInventoryCSV, f, m.store)

		return importDoneMsg{count: n, err: err}
	}
}

func (m *InventoryModel) refresh() {
	m.items = nil
	for _, it := range m.store.Inventory() {
		if !m.lowOnly || it.LowStock() {
			m.items = append(m.items, it)
		}
	}

	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		flag := ""
		if it.LowStock() {
			flag = "!"
		}

		rows = append(rows, table.Row{
			it.Name,
			it.Category,
			FormatCount(it.Quantity),
			FormatCount(it.MinQuantity),
			FormatAmount(it.UnitPrice),
			it.Location,
			FormatDate(it.LastRestocked),
			flag,
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m InventoryModel) View() string {
	sum := report.Inventory(m.store.Inventory())

	filter := "All"
	if m.lowOnly {
		filter = "Low stock"
	}

	header := fmt.Sprintf(
		"Filter: [l] %s | %s units | %d low | stock value %s",
		activeStyle(filter),
		FormatCount(sum.TotalUnits),
		sum.LowStockCount,
		FormatAmount(sum.TotalValue),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		renderTable(m.table),
		helpText(m.ShortHelp()),
	)

	switch m.state {
	case inventoryStateImport:
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("Import Inventory", m.form))
	case inventoryStateImporting:
		content = statusText("Importing...") + "\n" + content
	}

	switch {
	case m.err != nil:
		content = errorText(m.err) + "\n" + content
	case m.status != "":
		content = statusText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
