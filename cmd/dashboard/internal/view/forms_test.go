package view

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mechanico/internal/collection"
	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/seed"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/memory"
)

var t0 = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, now *time.Time) *datastore.Store {
	t.Helper()

	repo := collection.NewRepository(memory.NewMedium(0).Open(), collection.PrefixedKeys("mechanico_"))
	store := datastore.New(repo, datastore.WithClock(func() time.Time { return *now }))
	require.NoError(t, store.Initialize())

	return store
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and returns the action result it produced.
func run(t *testing.T, cmd tea.Cmd) actionMsg {
	t.Helper()
	require.NotNil(t, cmd)

	msg, ok := cmd().(actionMsg)
	require.True(t, ok)

	return msg
}

func TestParseWhole(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: " 2,800,000 ", want: 2800000},
		{in: "1_500", want: 1500},
		{in: "", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWhole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"brakes", "wiring", "suspension"}, splitList(" brakes, wiring,, suspension "))
	assert.Nil(t, splitList(" , "))
}

func TestBookingFields_Payload(t *testing.T) {
	services := seed.Services()

	tests := []struct {
		name      string
		fields    bookingFields
		wantPrice int64
		wantErr   bool
	}{
		{
			name:      "BasePriceFallback",
			fields:    bookingFields{customerID: "3", vehicleID: "1", serviceID: "2", scheduledAt: "2026-04-03 10:00"},
			wantPrice: 450000,
		},
		{
			name:      "ExplicitPrice",
			fields:    bookingFields{serviceID: "2", scheduledAt: "2026-04-03 10:00", price: "500,000"},
			wantPrice: 500000,
		},
		{
			name:    "BadSchedule",
			fields:  bookingFields{serviceID: "2", scheduledAt: "tomorrow"},
			wantErr: true,
		},
		{
			name:    "BadPrice",
			fields:  bookingFields{serviceID: "2", scheduledAt: "2026-04-03 10:00", price: "cheap"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fields.payload(services, time.UTC)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, entity.BookingPending, got.Status)
			assert.Equal(t, tt.wantPrice, got.Price)
			assert.Equal(t, time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC), got.ScheduledAt)
		})
	}
}

func TestExpenseFields_Payload(t *testing.T) {
	f := expenseFields{category: "قطعات", description: " brake pads ", amount: "95,000", paymentMethod: "نقدی"}

	got, err := f.payload(t0)
	require.NoError(t, err)
	assert.Equal(t, entity.ExpensePayload{
		Category:      "قطعات",
		Description:   "brake pads",
		Amount:        95000,
		Date:          t0,
		PaymentMethod: "نقدی",
	}, got)

	f.amount = "0"
	_, err = f.payload(t0)
	assert.Error(t, err)
}

func TestEmployeeFields_Payload(t *testing.T) {
	f := employeeFields{userID: "2", position: "Mechanic", department: "Workshop", salary: "30,000,000", hireDate: "2025-09-01", skills: "engine, brakes"}

	got, err := f.payload()
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeActive, got.Status)
	assert.Equal(t, startingPerformance, got.Performance)
	assert.Equal(t, int64(30000000), got.Salary)
	assert.Equal(t, []string{"engine", "brakes"}, got.Skills)
	assert.NoError(t, got.Validate())

	f.hireDate = "01/09/2025"
	_, err = f.payload()
	assert.Error(t, err)
}

func TestVehicleFields_Patch(t *testing.T) {
	v := seed.Vehicles()[0]
	f := vehicleFieldsFrom(v)
	f.mileage = "46,500"

	patch, err := f.patch()
	require.NoError(t, err)
	assert.Nil(t, patch.OwnerID)

	got := patch.Apply(v)
	assert.Equal(t, 46500, got.Mileage)
	assert.Equal(t, v.LicensePlate, got.LicensePlate)
}

func TestNextEmployeeStatus(t *testing.T) {
	assert.Equal(t, entity.EmployeeOnLeave, nextEmployeeStatus(entity.EmployeeActive))
	assert.Equal(t, entity.EmployeeInactive, nextEmployeeStatus(entity.EmployeeOnLeave))
	assert.Equal(t, entity.EmployeeActive, nextEmployeeStatus(entity.EmployeeInactive))
	assert.Equal(t, entity.EmployeeActive, nextEmployeeStatus("retired"))
}

func TestVehiclesModel_Delete(t *testing.T) {
	now := t0
	store := newTestStore(t, &now)

	m := NewVehiclesModel(store)
	_, cmd := m.Update(key("x"))

	res := run(t, cmd)
	require.NoError(t, res.err)
	require.Len(t, store.Vehicles(), 1)
	assert.Equal(t, "2", store.Vehicles()[0].ID)
}

func TestEmployeesModel_CycleStatus(t *testing.T) {
	now := t0
	store := newTestStore(t, &now)

	m := NewEmployeesModel(store)
	_, cmd := m.Update(key("t"))

	res := run(t, cmd)
	require.NoError(t, res.err)
	assert.Equal(t, entity.EmployeeOnLeave, store.Employees()[0].Status)
}

func TestInvoiceModel_MarkOverdue(t *testing.T) {
	now := t0
	store := newTestStore(t, &now)
	m := NewInvoiceModel(store)

	_, cmd := m.Update(key("m"))
	assert.Equal(t, "No sent invoices are past due.", run(t, cmd).done)

	now = t0.Add(8 * 24 * time.Hour)

	_, cmd = m.Update(key("m"))
	assert.Equal(t, "1 invoices marked overdue.", run(t, cmd).done)
	assert.Equal(t, entity.InvoiceOverdue, store.Invoices()[1].Status)
}

func TestFormsOpenAndCancel(t *testing.T) {
	now := t0
	store := newTestStore(t, &now)
	esc := tea.KeyMsg{Type: tea.KeyEsc}

	tests := []struct {
		name  string
		model View
		open  string
	}{
		{name: "Vehicles", model: NewVehiclesModel(store), open: "n"},
		{name: "VehiclesEdit", model: NewVehiclesModel(store), open: "e"},
		{name: "Employees", model: NewEmployeesModel(store), open: "n"},
		{name: "Bookings", model: NewBookingsModel(store), open: "n"},
		{name: "Accounting", model: NewAccountingModel(store, nil), open: "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opened, _ := tt.model.Update(key(tt.open))
			assert.Contains(t, opened.(View).ShortHelp(), "Esc: cancel")

			closed, cmd := opened.Update(esc)
			assert.Nil(t, cmd)
			assert.Contains(t, closed.(View).ShortHelp(), "Esc: back")
		})
	}
}
