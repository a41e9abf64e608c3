package datastore_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mechanico/internal/collection"
	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/storage"
	"github.com/MrJamesThe3rd/mechanico/internal/storage/memory"
)

var (
	keys = collection.PrefixedKeys("mechanico_")
	t0   = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

type fixture struct {
	medium *memory.Medium
	handle storage.Store
	clock  *clock
	store  *datastore.Store
}

func newFixture(t *testing.T, opts ...datastore.Option) *fixture {
	t.Helper()

	m := memory.NewMedium(0)
	f := &fixture{medium: m, handle: m.Open(), clock: &clock{now: t0}}

	opts = append([]datastore.Option{
		datastore.WithClock(f.clock.Now),
		datastore.WithIDGenerator(sequentialIDs()),
	}, opts...)

	f.store = datastore.New(collection.NewRepository(f.handle, keys), opts...)

	return f
}

func newReadyFixture(t *testing.T, opts ...datastore.Option) *fixture {
	t.Helper()

	f := newFixture(t, opts...)
	require.NoError(t, f.store.Initialize())

	return f
}

func TestStore_Initialize(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.store.Ready())
	assert.Nil(t, f.store.Bookings())

	require.NoError(t, f.store.Initialize())
	assert.True(t, f.store.Ready())

	snap := f.store.Snapshot()
	assert.Len(t, snap.Users, 4)
	assert.Len(t, snap.Services, 6)
	assert.Len(t, snap.Vehicles, 2)
	assert.Len(t, snap.Bookings, 4)
	assert.Len(t, snap.Reviews, 2)
	assert.Len(t, snap.Invoices, 2)
	assert.Len(t, snap.Expenses, 3)
	assert.Empty(t, snap.Transactions)
	assert.Len(t, snap.Employees, 2)
	assert.Len(t, snap.Inventory, 4)

	for _, key := range keys.All()[:10] {
		_, ok, err := f.handle.Get(key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}
}

func TestStore_InitializeIsIdempotent(t *testing.T) {
	f := newReadyFixture(t)
	before := f.store.Snapshot()

	f.clock.now = t0.Add(time.Hour)
	require.NoError(t, f.store.Initialize())

	assert.Equal(t, before, f.store.Snapshot())
}

func TestStore_InitializeKeepsPresentCollections(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.handle.Set(keys.Bookings, "[]"))

	require.NoError(t, f.store.Initialize())

	assert.Empty(t, f.store.Bookings())
	assert.Len(t, f.store.Users(), 4)
}

func TestStore_InitializeCorrupt(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.handle.Set(keys.Inventory, "{broken"))

	err := f.store.Initialize()
	require.ErrorIs(t, err, collection.ErrCorrupt)
	assert.False(t, f.store.Ready())

	require.NoError(t, f.store.ResetDemoData())
	assert.True(t, f.store.Ready())
	assert.Len(t, f.store.Inventory(), 4)
}

func TestStore_NotReady(t *testing.T) {
	f := newFixture(t)

	_, err := f.store.AddBooking(entity.BookingPayload{Status: entity.BookingPending})
	require.ErrorIs(t, err, datastore.ErrNotReady)

	require.ErrorIs(t, f.store.DeleteBooking("1"), datastore.ErrNotReady)
	require.ErrorIs(t, f.store.AdjustInventoryQuantity("1", 1), datastore.ErrNotReady)
}

func TestStore_AddBooking(t *testing.T) {
	f := newReadyFixture(t)

	got, err := f.store.AddBooking(entity.BookingPayload{
		CustomerID: "3",
		ProviderID: "2",
		VehicleID:  "2",
		ServiceID:  "5",
		Status:     entity.BookingPending,
		Price:      1200000,
	})
	require.NoError(t, err)

	assert.Equal(t, "gen-1", got.ID)
	assert.Equal(t, t0, got.CreatedAt)

	bookings := f.store.Bookings()
	require.Len(t, bookings, 5)
	assert.Equal(t, got, bookings[4])

	persisted, err := collection.NewRepository(f.medium.Open(), keys).Bookings.Get()
	require.NoError(t, err)
	assert.Equal(t, bookings, persisted)
}

func TestStore_AddBookingUniqueIDs(t *testing.T) {
	m := memory.NewMedium(0)
	s := datastore.New(collection.NewRepository(m.Open(), keys))
	require.NoError(t, s.Initialize())

	before := time.Now()
	seen := map[string]bool{}

	for _, b := range s.Bookings() {
		seen[b.ID] = true
	}

	for range 20 {
		b, err := s.AddBooking(entity.BookingPayload{Status: entity.BookingPending})
		require.NoError(t, err)

		assert.NotEmpty(t, b.ID)
		assert.False(t, seen[b.ID], b.ID)
		assert.False(t, b.CreatedAt.Before(before))
		seen[b.ID] = true
	}
}

func TestStore_AddBookingPayloadErrors(t *testing.T) {
	f := newReadyFixture(t)

	_, err := f.store.AddBooking(entity.BookingPayload{ID: "1", Status: entity.BookingPending})
	require.ErrorIs(t, err, datastore.ErrInvalidPayload)

	_, err = f.store.AddBooking(entity.BookingPayload{Status: "done"})
	require.ErrorIs(t, err, datastore.ErrInvalidPayload)
	require.ErrorIs(t, err, entity.ErrInvalid)

	assert.Len(t, f.store.Bookings(), 4)
}

func TestStore_UpdateBookingStatus(t *testing.T) {
	// Seed booking 1 is confirmed, 2 is completed, 4 is pending.
	tests := []struct {
		name    string
		strict  bool
		id      string
		status  entity.BookingStatus
		want    entity.BookingStatus
		wantErr error
	}{
		{name: "ConfirmedToInProgress", strict: true, id: "1", status: entity.BookingInProgress, want: entity.BookingInProgress},
		{name: "PendingToCancelled", strict: true, id: "4", status: entity.BookingCancelled, want: entity.BookingCancelled},
		{name: "SameStatus", strict: true, id: "1", status: entity.BookingConfirmed, want: entity.BookingConfirmed},
		{name: "SkipStep", strict: true, id: "4", status: entity.BookingCompleted, want: entity.BookingPending, wantErr: datastore.ErrInvalidTransition},
		{name: "LeaveTerminal", strict: true, id: "2", status: entity.BookingPending, want: entity.BookingCompleted, wantErr: datastore.ErrInvalidTransition},
		{name: "PermissiveLeaveTerminal", strict: false, id: "2", status: entity.BookingPending, want: entity.BookingPending},
		{name: "UnknownStatus", strict: true, id: "1", status: "archived", want: entity.BookingConfirmed, wantErr: datastore.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReadyFixture(t, datastore.WithStrictTransitions(tt.strict))

			err := f.store.UpdateBookingStatus(tt.id, tt.status)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			for _, b := range f.store.Bookings() {
				if b.ID == tt.id {
					assert.Equal(t, tt.want, b.Status)
				}
			}
		})
	}
}

func TestStore_UpdateBookingStatusUnknownID(t *testing.T) {
	f := newReadyFixture(t)
	before := f.store.Bookings()

	require.NoError(t, f.store.UpdateBookingStatus("missing", entity.BookingCancelled))
	assert.Equal(t, before, f.store.Bookings())
}

func TestStore_DeleteBooking(t *testing.T) {
	f := newReadyFixture(t)
	before := f.store.Bookings()

	require.NoError(t, f.store.DeleteBooking("missing"))
	assert.Equal(t, before, f.store.Bookings())

	require.NoError(t, f.store.DeleteBooking("2"))

	after := f.store.Bookings()
	require.Len(t, after, 3)

	for _, b := range after {
		assert.NotEqual(t, "2", b.ID)
	}

	// Reviews and invoices still point at the deleted booking.
	assert.Len(t, f.store.Reviews(), 2)
	assert.Len(t, f.store.Invoices(), 2)
}

func TestStore_AddInvoice(t *testing.T) {
	f := newReadyFixture(t)
	backdated := t0.AddDate(0, -2, 0)
	items := []entity.InvoiceItem{entity.NewInvoiceItem("1", "brake pads", 2, 450000)}

	p := entity.InvoicePayload{
		BookingID:     "3",
		InvoiceNumber: "INV-2026-003",
		Items:         items,
		Status:        entity.InvoiceDraft,
		CreatedAt:     backdated,
	}.WithTotals(entity.ComputeInvoiceTotals(items, entity.DefaultTaxRate, 0))

	got, err := f.store.AddInvoice(p)
	require.NoError(t, err)
	assert.Equal(t, backdated, got.CreatedAt)
	assert.Equal(t, int64(981000), got.Total)

	got, err = f.store.AddInvoice(entity.InvoicePayload{Status: entity.InvoiceDraft})
	require.NoError(t, err)
	assert.Equal(t, t0, got.CreatedAt)

	require.NoError(t, f.store.UpdateInvoiceStatus("2", entity.InvoicePaid))
	require.NoError(t, f.store.UpdateInvoiceStatus("missing", entity.InvoicePaid))
	assert.Equal(t, entity.InvoicePaid, f.store.Invoices()[1].Status)
}

func TestStore_AddExpense(t *testing.T) {
	f := newReadyFixture(t)

	got, err := f.store.AddExpense(entity.ExpensePayload{Category: "parts", Amount: 95000, Date: t0})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", got.ID)
	assert.Equal(t, t0, got.CreatedAt)
	assert.Len(t, f.store.Expenses(), 4)
}

func TestStore_AddInventoryItem(t *testing.T) {
	restocked := t0.Add(-48 * time.Hour)

	tests := []struct {
		name          string
		payload       entity.InventoryPayload
		wantRestocked time.Time
	}{
		{
			name:          "StampsNowWhenUnset",
			payload:       entity.InventoryPayload{Name: "filter", Quantity: 4, MinQuantity: 10},
			wantRestocked: t0,
		},
		{
			name:          "KeepsGivenDate",
			payload:       entity.InventoryPayload{Name: "battery", Quantity: 2, MinQuantity: 1, LastRestocked: restocked},
			wantRestocked: restocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReadyFixture(t)

			got, err := f.store.AddInventoryItem(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, "gen-1", got.ID)
			assert.Equal(t, tt.wantRestocked, got.LastRestocked)

			persisted, err := collection.New[entity.InventoryItem](f.handle, keys.Inventory).Get()
			require.NoError(t, err)
			require.Len(t, persisted, 5)
			assert.True(t, tt.wantRestocked.Equal(persisted[4].LastRestocked))
		})
	}
}

func TestStore_AdjustInventoryQuantity(t *testing.T) {
	// Seed item 2 starts at quantity 15.
	tests := []struct {
		name   string
		deltas []int
		want   int
	}{
		{name: "Consume", deltas: []int{-5}, want: 10},
		{name: "FloorAtZero", deltas: []int{-20}, want: 0},
		{name: "FloorThenRestock", deltas: []int{-20, 3}, want: 3},
		{name: "Mixed", deltas: []int{4, -10, 1}, want: 10},
		{name: "Zero", deltas: []int{0}, want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReadyFixture(t)

			for _, d := range tt.deltas {
				require.NoError(t, f.store.AdjustInventoryQuantity("2", d))
			}

			item := findItem(t, f.store.Inventory(), "2")
			assert.Equal(t, tt.want, item.Quantity)
		})
	}
}

func TestStore_AdjustInventoryRestockPolicy(t *testing.T) {
	f := newReadyFixture(t)
	seeded := findItem(t, f.store.Inventory(), "1").LastRestocked

	f.clock.now = t0.Add(time.Hour)
	require.NoError(t, f.store.AdjustInventoryQuantity("1", -3))
	require.NoError(t, f.store.AdjustInventoryQuantity("1", 0))
	assert.Equal(t, seeded, findItem(t, f.store.Inventory(), "1").LastRestocked)

	f.clock.now = t0.Add(2 * time.Hour)
	require.NoError(t, f.store.AdjustInventoryQuantity("1", 10))
	assert.Equal(t, t0.Add(2*time.Hour), findItem(t, f.store.Inventory(), "1").LastRestocked)

	require.NoError(t, f.store.AdjustInventoryQuantity("missing", 10))
}

func findItem(t *testing.T, items []entity.InventoryItem, id string) entity.InventoryItem {
	t.Helper()

	for _, it := range items {
		if it.ID == id {
			return it
		}
	}

	t.Fatalf("inventory item %s not found", id)

	return entity.InventoryItem{}
}

func TestStore_Vehicles(t *testing.T) {
	f := newReadyFixture(t)

	v, err := f.store.AddVehicle(entity.VehiclePayload{ID: "v-9", OwnerID: "3", Make: "Kia", Mileage: 100})
	require.NoError(t, err)
	assert.Equal(t, "v-9", v.ID)

	require.NoError(t, f.store.UpdateVehicle("v-9", entity.VehiclePatch{Mileage: new(2500)}))
	require.NoError(t, f.store.UpdateVehicle("missing", entity.VehiclePatch{Mileage: new(1)}))
	require.ErrorIs(t, f.store.UpdateVehicle("v-9", entity.VehiclePatch{Mileage: new(-1)}), datastore.ErrInvalidPayload)

	vehicles := f.store.Vehicles()
	require.Len(t, vehicles, 3)
	assert.Equal(t, 2500, vehicles[2].Mileage)
	assert.Equal(t, "Kia", vehicles[2].Make)

	require.NoError(t, f.store.DeleteVehicle("1"))
	require.NoError(t, f.store.DeleteVehicle("1"))
	assert.Len(t, f.store.Vehicles(), 2)
	assert.Len(t, f.store.Bookings(), 4)
}

func TestStore_Users(t *testing.T) {
	f := newReadyFixture(t)

	require.NoError(t, f.store.UpdateUserApproval("4", true))
	assert.True(t, f.store.Users()[3].IsApproved)

	u, err := f.store.RegisterUser(entity.UserPayload{
		Email:    "new@mechanico.ir",
		Password: "pw",
		FullName: "New Customer",
		Role:     entity.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", u.ID)
	assert.Equal(t, t0, u.CreatedAt)

	_, err = f.store.RegisterUser(entity.UserPayload{Email: "Admin@Mechanico.ir", Role: entity.RoleCustomer})
	require.ErrorIs(t, err, datastore.ErrEmailTaken)
	assert.Len(t, f.store.Users(), 5)
}

func TestStore_EmployeesReviewsTransactions(t *testing.T) {
	f := newReadyFixture(t)

	e, err := f.store.AddEmployee(entity.EmployeePayload{UserID: "3", Status: entity.EmployeeActive, Skills: []string{"wash"}})
	require.NoError(t, err)
	require.NoError(t, f.store.UpdateEmployeeStatus(e.ID, entity.EmployeeOnLeave))
	assert.Equal(t, entity.EmployeeOnLeave, f.store.Employees()[2].Status)

	_, err = f.store.AddReview(entity.ReviewPayload{BookingID: "3", Rating: 0})
	require.ErrorIs(t, err, datastore.ErrInvalidPayload)

	r, err := f.store.AddReview(entity.ReviewPayload{BookingID: "3", Rating: 3})
	require.NoError(t, err)
	assert.Equal(t, t0, r.CreatedAt)

	tx, err := f.store.AddTransaction(entity.TransactionPayload{Type: entity.TransactionIncome, Amount: 876500, RelatedID: "2"})
	require.NoError(t, err)
	assert.Equal(t, []entity.Transaction{tx}, f.store.Transactions())
}

func TestStore_ResetDemoData(t *testing.T) {
	f := newReadyFixture(t)
	seeded := f.store.Snapshot()

	_, err := f.store.AddBooking(entity.BookingPayload{Status: entity.BookingPending})
	require.NoError(t, err)
	require.NoError(t, f.store.AdjustInventoryQuantity("1", -45))
	require.NoError(t, f.handle.Set(keys.CurrentUser, `{"id":"1"}`))

	require.NoError(t, f.store.ResetDemoData())

	assert.Equal(t, seeded, f.store.Snapshot())

	_, ok, err := f.handle.Get(keys.CurrentUser)
	require.NoError(t, err)
	assert.False(t, ok, "reset clears the session")
}

func TestStore_WriteFailureLeavesCache(t *testing.T) {
	f := newReadyFixture(t)
	before := f.store.Snapshot()

	f.medium.Disable()

	_, err := f.store.AddBooking(entity.BookingPayload{Status: entity.BookingPending})
	require.ErrorIs(t, err, storage.ErrDisabled)

	require.ErrorIs(t, f.store.AdjustInventoryQuantity("1", 5), storage.ErrDisabled)
	require.ErrorIs(t, f.store.UpdateBookingStatus("1", entity.BookingCancelled), storage.ErrDisabled)

	assert.Equal(t, before, f.store.Snapshot())
}

func TestStore_QuotaExceeded(t *testing.T) {
	fixed := datastore.WithClock(func() time.Time { return t0 })

	m := memory.NewMedium(0)
	require.NoError(t, datastore.New(collection.NewRepository(m.Open(), keys), fixed).Initialize())

	tight := memory.NewMedium(m.Size() + 10)
	s := datastore.New(collection.NewRepository(tight.Open(), keys), fixed)
	require.NoError(t, s.Initialize())

	_, err := s.AddExpense(entity.ExpensePayload{Category: "a long enough category to overflow", Amount: 1})
	require.ErrorIs(t, err, storage.ErrQuotaExceeded)
	assert.Len(t, s.Expenses(), 3)
}

func TestStore_Subscribe(t *testing.T) {
	f := newFixture(t)

	var got []entity.Kind

	unsubscribe := f.store.Subscribe(func(c datastore.Change) { got = append(got, c.Kind) })

	require.NoError(t, f.store.Initialize())
	_, err := f.store.AddBooking(entity.BookingPayload{Status: entity.BookingPending})
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteBooking("missing"))
	require.NoError(t, f.store.AdjustInventoryQuantity("1", 1))

	f.medium.Disable()
	_, err = f.store.AddExpense(entity.ExpensePayload{})
	require.Error(t, err)
	f.medium.Enable()

	require.NoError(t, f.store.Reload())

	unsubscribe()
	unsubscribe()
	require.NoError(t, f.store.UpdateUserApproval("4", true))

	assert.Equal(t, []entity.Kind{
		datastore.KindAll,
		entity.KindBookings,
		entity.KindInventory,
		datastore.KindAll,
	}, got)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	f := newReadyFixture(t)

	invoices := f.store.Invoices()
	invoices[0].Items[0].Description = "tampered"
	invoices[0].Status = entity.InvoiceCancelled

	employees := f.store.Employees()
	employees[0].Skills[0] = "tampered"

	fresh := f.store.Invoices()
	assert.NotEqual(t, "tampered", fresh[0].Items[0].Description)
	assert.Equal(t, entity.InvoicePaid, fresh[0].Status)
	assert.NotEqual(t, "tampered", f.store.Employees()[0].Skills[0])
}

func TestStore_Reload(t *testing.T) {
	f := newReadyFixture(t)

	other := datastore.New(collection.NewRepository(f.medium.Open(), keys))
	require.NoError(t, other.Initialize())

	_, err := other.AddVehicle(entity.VehiclePayload{OwnerID: "3"})
	require.NoError(t, err)

	assert.Len(t, f.store.Vehicles(), 2)
	require.NoError(t, f.store.Reload())
	assert.Equal(t, other.Snapshot(), f.store.Snapshot())

	require.NoError(t, f.handle.Set(keys.Reviews, "nope"))
	require.ErrorIs(t, f.store.Reload(), collection.ErrCorrupt)
	assert.False(t, f.store.Ready())
}

func TestStore_MarkOverdueInvoices(t *testing.T) {
	f := newReadyFixture(t)

	var kinds []entity.Kind
	unsubscribe := f.store.Subscribe(func(c datastore.Change) { kinds = append(kinds, c.Kind) })
	defer unsubscribe()

	n, err := f.store.MarkOverdueInvoices()
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is past due yet")
	assert.Empty(t, kinds)

	f.clock.now = t0.Add(8 * 24 * time.Hour)

	n, err = f.store.MarkOverdueInvoices()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []entity.Kind{entity.KindInvoices}, kinds)

	invoices := f.store.Invoices()
	assert.Equal(t, entity.InvoicePaid, invoices[0].Status)
	assert.Equal(t, entity.InvoiceOverdue, invoices[1].Status)

	persisted, err := collection.NewRepository(f.medium.Open(), keys).Invoices.Get()
	require.NoError(t, err)
	assert.Equal(t, invoices, persisted)

	n, err = f.store.MarkOverdueInvoices()
	require.NoError(t, err)
	assert.Zero(t, n)
}
