package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

type vehicleFields struct {
	ownerID string
	make    string
	model   string
	year    string
	plate   string
	color   string
	mileage string
}

func vehicleFieldsFrom(v entity.Vehicle) *vehicleFields {
	return &vehicleFields{
		ownerID: v.OwnerID,
		make:    v.Make,
		model:   v.Model,
		year:    strconv.Itoa(v.Year),
		plate:   v.LicensePlate,
		color:   v.Color,
		mileage: strconv.Itoa(v.Mileage),
	}
}

func (f *vehicleFields) numbers() (year, mileage int, err error) {
	y, err := parseWhole(f.year)
	if err != nil {
		return 0, 0, fmt.Errorf("year %q: %w", f.year, err)
	}

	km, err := parseWhole(f.mileage)
	if err != nil {
		return 0, 0, fmt.Errorf("mileage %q: %w", f.mileage, err)
	}

	return int(y), int(km), nil
}

func (f *vehicleFields) payload() (entity.VehiclePayload, error) {
	year, mileage, err := f.numbers()
	if err != nil {
		return entity.VehiclePayload{}, err
	}

	return entity.VehiclePayload{
		OwnerID:      f.ownerID,
		Make:         strings.TrimSpace(f.make),
		Model:        strings.TrimSpace(f.model),
		Year:         year,
		LicensePlate: strings.TrimSpace(f.plate),
		Color:        strings.TrimSpace(f.color),
		Mileage:      mileage,
	}, nil
}

// patch sets every editable field; the owner never changes from this screen.
func (f *vehicleFields) patch() (entity.VehiclePatch, error) {
	p, err := f.payload()
	if err != nil {
		return entity.VehiclePatch{}, err
	}

	return entity.VehiclePatch{
		Make:         &p.Make,
		Model:        &p.Model,
		Year:         &p.Year,
		LicensePlate: &p.LicensePlate,
		Color:        &p.Color,
		Mileage:      &p.Mileage,
	}, nil
}

type VehiclesModel struct {
	store *datastore.Store

	table    table.Model
	vehicles []entity.Vehicle

	form    *huh.Form
	fields  *vehicleFields
	editing string

	status string
	err    error
}

func NewVehiclesModel(store *datastore.Store) VehiclesModel {
	m := VehiclesModel{
		store: store,
		table: newTable([]table.Column{
			{Title: "Plate", Width: 14},
			{Title: "Vehicle", Width: 22},
			{Title: "Year", Width: 6},
			{Title: "Color", Width: 10},
			{Title: "Mileage", Width: 10},
			{Title: "Owner", Width: 20},
		}),
	}
	m.refresh()

	return m
}

func (m VehiclesModel) Title() string { return "Vehicles" }
func (m VehiclesModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: save | Esc: cancel"
	}
	return "Esc: back | n: new | e: edit | x: delete"
}

func (m VehiclesModel) Init() tea.Cmd {
	return nil
}

func (m VehiclesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindVehicles, entity.KindUsers) {
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
			return m.openForm("", &vehicleFields{year: strconv.Itoa(time.Now().Year()), mileage: "0"})
		case "e":
			if v, ok := m.selected(); ok {
				return m.openForm(v.ID, vehicleFieldsFrom(v))
			}
			return m, nil
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m VehiclesModel) selected() (entity.Vehicle, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.vehicles) {
		return entity.Vehicle{}, false
	}

	return m.vehicles[idx], true
}

func (m VehiclesModel) openForm(editing string, fields *vehicleFields) (tea.Model, tea.Cmd) {
	var inputs []huh.Field

	if editing == "" {
		var options []huh.Option[string]
		for _, u := range m.store.Users() {
			if u.Role == entity.RoleCustomer {
				options = append(options, huh.NewOption(u.FullName, u.ID))
			}
		}

		inputs = append(inputs, huh.NewSelect[string]().
			Title("Owner").
			Options(options...).
			Value(&fields.ownerID))
	}

	inputs = append(inputs,
		huh.NewInput().Title("Make").Value(&fields.make).Validate(required("make")),
		huh.NewInput().Title("Model").Value(&fields.model).Validate(required("model")),
		huh.NewInput().Title("Year").Value(&fields.year).Validate(wholeNumber("year")),
		huh.NewInput().Title("License Plate").Value(&fields.plate).Validate(required("license plate")),
		huh.NewInput().Title("Color").Value(&fields.color),
		huh.NewInput().Title("Mileage (km)").Value(&fields.mileage).Validate(wholeNumber("mileage")),
	)

	m.fields = fields
	m.editing = editing
	m.form = huh.NewForm(huh.NewGroup(inputs...)).WithWidth(58).WithShowHelp(false)
	m.table.Blur()

	return m, m.form.Init()
}

func (m VehiclesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return m, m.saveCmd(m.editing, m.fields)
	}

	return m, cmd
}

func (m VehiclesModel) saveCmd(editing string, fields *vehicleFields) tea.Cmd {
	if editing != "" {
		return action("Vehicle updated.", func() error {
			patch, err := fields.patch()
			if err != nil {
				return err
			}
			return m.store.UpdateVehicle(editing, patch)
		})
	}

	return action("Vehicle added.", func() error {
		p, err := fields.payload()
		if err != nil {
			return err
		}
		_, err = m.store.AddVehicle(p)
		return err
	})
}

func (m VehiclesModel) deleteCmd() tea.Cmd {
	v, ok := m.selected()
	if !ok {
		return nil
	}

	return action(fmt.Sprintf("Vehicle %s deleted.", v.LicensePlate), func() error {
		return m.store.DeleteVehicle(v.ID)
	})
}

func (m *VehiclesModel) refresh() {
	m.vehicles = m.store.Vehicles()

	owners := make(map[string]string)
	for _, u := range m.store.Users() {
		owners[u.ID] = u.FullName
	}

	rows := make([]table.Row, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		rows = append(rows, table.Row{
			v.LicensePlate,
			strings.TrimSpace(v.Make + " " + v.Model),
			strconv.Itoa(v.Year),
			v.Color,
			FormatCount(v.Mileage),
			owners[v.OwnerID],
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m VehiclesModel) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(fmt.Sprintf("%d vehicles", len(m.vehicles))),
		renderTable(m.table),
		helpText(m.ShortHelp()),
	)

	if m.form != nil {
		title := "New Vehicle"
		if m.editing != "" {
			title = "Edit Vehicle"
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel(title, m.form))
	}

	switch {
	case m.err != nil:
		content = errorText(m.err) + "\n" + content
	case m.status != "":
		content = statusText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
