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
	"github.com/MrJamesThe3rd/mechanico/internal/report"
)

var bookingFilters = []entity.BookingStatus{
	"",
	entity.BookingPending,
	entity.BookingConfirmed,
	entity.BookingInProgress,
	entity.BookingCompleted,
	entity.BookingCancelled,
}

var dateLabels = []string{"All Time", "This Month", "Last Month"}

// monthRange maps a date filter index to a half-open [start, end) range.
func monthRange(idx int, now time.Time) (time.Time, time.Time, bool) {
	switch idx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return s, s.AddDate(0, 1, 0), true
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		return s, s.AddDate(0, 1, 0), true
	}

	return time.Time{}, time.Time{}, false
}

type bookingFields struct {
	customerID  string
	providerID  string
	vehicleID   string
	serviceID   string
	scheduledAt string
	price       string
	notes       string
}

// payload builds a pending booking. An empty price falls back to the
// service's base price.
func (f *bookingFields) payload(services []entity.Service, loc *time.Location) (entity.BookingPayload, error) {
	at, err := parseSchedule(f.scheduledAt, loc)
	if err != nil {
		return entity.BookingPayload{}, fmt.Errorf("scheduled time %q: %w", f.scheduledAt, err)
	}

	var price int64

	if strings.TrimSpace(f.price) != "" {
		if price, err = parseWhole(f.price); err != nil {
			return entity.BookingPayload{}, fmt.Errorf("price %q: %w", f.price, err)
		}
	} else {
		for _, svc := range services {
			if svc.ID == f.serviceID {
				price = svc.BasePrice
				break
			}
		}
	}

	return entity.BookingPayload{
		CustomerID:  f.customerID,
		ProviderID:  f.providerID,
		VehicleID:   f.vehicleID,
		ServiceID:   f.serviceID,
		ScheduledAt: at,
		Status:      entity.BookingPending,
		Price:       price,
		Notes:       strings.TrimSpace(f.notes),
	}, nil
}

type BookingsModel struct {
	store *datastore.Store

	table         table.Model
	bookings      []entity.Booking
	filterIdx     int
	dateFilterIdx int

	form   *huh.Form
	fields *bookingFields

	status string
	err    error
}

func NewBookingsModel(store *datastore.Store) BookingsModel {
	m := BookingsModel{
		store: store,
		table: newTable([]table.Column{
			{Title: "Scheduled", Width: 17},
			{Title: "Customer", Width: 18},
			{Title: "Service", Width: 22},
			{Title: "Vehicle", Width: 18},
			{Title: "Status", Width: 12},
			{Title: "Price", Width: 16},
		}),
	}
	m.refresh()

	return m
}

func (m BookingsModel) Title() string { return "Bookings" }
func (m BookingsModel) ShortHelp() string {
	if m.form != nil {
		return "Enter: save | Esc: cancel"
	}
	return "Esc: back | n: new | a: advance | c: cancel | x: delete | s: status filter | d: date filter"
}

func (m BookingsModel) Init() tea.Cmd {
	return nil
}

func (m BookingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StoreChangedMsg:
		if affects(msg.Kind, entity.KindBookings, entity.KindUsers, entity.KindServices, entity.KindVehicles) {
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
		case "s":
			m.filterIdx = (m.filterIdx + 1) % len(bookingFilters)
			m.refresh()
			return m, nil
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateLabels)
			m.refresh()
			return m, nil
		case "a":
			return m, m.advanceCmd()
		case "c":
			return m, m.transitionCmd(entity.BookingCancelled)
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BookingsModel) openForm() (tea.Model, tea.Cmd) {
	users := m.store.Users()
	vehicles := m.store.Vehicles()

	var customers, providers []huh.Option[string]
	for _, u := range users {
		switch u.Role {
		case entity.RoleCustomer:
			customers = append(customers, huh.NewOption(u.FullName, u.ID))
		case entity.RoleProvider:
			providers = append(providers, huh.NewOption(u.FullName, u.ID))
		}
	}

	var services []huh.Option[string]
	for _, svc := range m.store.Services() {
		services = append(services, huh.NewOption(fmt.Sprintf("%s (%s)", svc.Name, FormatAmount(svc.BasePrice)), svc.ID))
	}

	fields := &bookingFields{
		scheduledAt: time.Now().Add(24 * time.Hour).Truncate(time.Hour).Format(scheduleLayout),
	}

	m.fields = fields
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Customer").Options(customers...).Value(&fields.customerID),
			huh.NewSelect[string]().Title("Vehicle").
				OptionsFunc(func() []huh.Option[string] {
					var opts []huh.Option[string]
					for _, v := range vehicles {
						if v.OwnerID == fields.customerID {
							opts = append(opts, huh.NewOption(fmt.Sprintf("%s %s (%s)", v.Make, v.Model, v.LicensePlate), v.ID))
						}
					}
					return opts
				}, &fields.customerID).
				Value(&fields.vehicleID).
				Validate(required("vehicle")),
			huh.NewSelect[string]().Title("Provider").Options(providers...).Value(&fields.providerID),
			huh.NewSelect[string]().Title("Service").Options(services...).Value(&fields.serviceID),
			huh.NewInput().Title("Scheduled").Placeholder(scheduleLayout).Value(&fields.scheduledAt).Validate(validSchedule),
			huh.NewInput().Title("Price (Toman)").Description("Empty uses the service base price").Value(&fields.price).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return wholeNumber("price")(s)
				}),
			huh.NewInput().Title("Notes").Value(&fields.notes),
		),
	).WithWidth(58).WithShowHelp(false)
	m.table.Blur()

	return m, m.form.Init()
}

func (m BookingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return m, func() tea.Msg {
			p, err := fields.payload(m.store.Services(), time.Local)
			if err != nil {
				return actionMsg{err: err}
			}

			b, err := m.store.AddBooking(p)
			if err != nil {
				return actionMsg{err: err}
			}

			return actionMsg{done: fmt.Sprintf("Booking %s created.", b.ID)}
		}
	}

	return m, cmd
}

func (m BookingsModel) selected() (entity.Booking, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bookings) {
		return entity.Booking{}, false
	}

	return m.bookings[idx], true
}

// advanceCmd moves the selected booking one step forward, never to cancelled.
func (m BookingsModel) advanceCmd() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	for _, next := range b.Status.Next() {
		if next != entity.BookingCancelled {
			return m.transitionCmd(next)
		}
	}

	return func() tea.Msg {
		return actionMsg{err: fmt.Errorf("booking is already %s", b.Status)}
	}
}

func (m BookingsModel) transitionCmd(status entity.BookingStatus) tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	return action(fmt.Sprintf("Booking moved to %s.", status), func() error {
		return m.store.UpdateBookingStatus(b.ID, status)
	})
}

func (m BookingsModel) deleteCmd() tea.Cmd {
	b, ok := m.selected()
	if !ok {
		return nil
	}

	return action("Booking deleted.", func() error {
		return m.store.DeleteBooking(b.ID)
	})
}

func (m *BookingsModel) refresh() {
	filter := bookingFilters[m.filterIdx]
	start, end, bounded := monthRange(m.dateFilterIdx, time.Now())

	m.bookings = nil
	for _, b := range m.store.Bookings() {
		if filter != "" && b.Status != filter {
			continue
		}

		if bounded && (b.ScheduledAt.Before(start) || !b.ScheduledAt.Before(end)) {
			continue
		}

		m.bookings = append(m.bookings, b)
	}

	users := make(map[string]string)
	for _, u := range m.store.Users() {
		users[u.ID] = u.FullName
	}

	services := make(map[string]string)
	for _, s := range m.store.Services() {
		services[s.ID] = s.Name
	}

	vehicles := make(map[string]string)
	for _, v := range m.store.Vehicles() {
		vehicles[v.ID] = strings.TrimSpace(v.Make + " " + v.Model)
	}

	rows := make([]table.Row, 0, len(m.bookings))
	for _, b := range m.bookings {
		rows = append(rows, table.Row{
			FormatDateTime(b.ScheduledAt),
			users[b.CustomerID],
			services[b.ServiceID],
			vehicles[b.VehicleID],
			string(b.Status),
			FormatAmount(b.Price),
		})
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

func (m BookingsModel) View() string {
	label := "All"
	if f := bookingFilters[m.filterIdx]; f != "" {
		label = string(f)
	}

	counts := report.BookingCounts(m.store.Bookings())

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s | pending %d | confirmed %d | in progress %d | completed %d | cancelled %d",
		activeStyle(label),
		activeStyle(dateLabels[m.dateFilterIdx]),
		counts[entity.BookingPending],
		counts[entity.BookingConfirmed],
		counts[entity.BookingInProgress],
		counts[entity.BookingCompleted],
		counts[entity.BookingCancelled],
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		renderTable(m.table),
		helpText(m.ShortHelp()),
	)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, formPanel("New Booking", m.form))
	}

	switch {
	case m.err != nil:
		content = errorText(m.err) + "\n" + content
	case m.status != "":
		content = statusText(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
