package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewBooking_IDPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		payload entity.BookingPayload
		wantID  string
	}{
		{
			name:    "GeneratedWhenAbsent",
			payload: entity.BookingPayload{Status: entity.BookingPending},
			wantID:  "gen-1",
		},
		{
			name:    "CallerSupplied",
			payload: entity.BookingPayload{ID: "b-42", Status: entity.BookingPending},
			wantID:  "b-42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entity.NewBooking(tt.payload, "gen-1", now)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, now, got.CreatedAt)
		})
	}
}

func TestNewInvoice_KeepsBackdatedCreatedAt(t *testing.T) {
	backdated := now.AddDate(0, -1, 0)

	inv := entity.NewInvoice(entity.InvoicePayload{Status: entity.InvoiceDraft, CreatedAt: backdated}, "gen", now)
	assert.Equal(t, backdated, inv.CreatedAt)

	inv = entity.NewInvoice(entity.InvoicePayload{Status: entity.InvoiceDraft}, "gen", now)
	assert.Equal(t, now, inv.CreatedAt)
	assert.NotNil(t, inv.Items)
}

func TestComputeInvoiceTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []entity.InvoiceItem
		discount int64
		want     entity.InvoiceTotals
	}{
		{
			name: "FullServiceWithOil",
			items: []entity.InvoiceItem{
				entity.NewInvoiceItem("1", "full service", 1, 1500000),
				entity.NewInvoiceItem("2", "oil", 4, 150000),
			},
			want: entity.InvoiceTotals{Subtotal: 2100000, Tax: 189000, Total: 2289000},
		},
		{
			name:     "OilChangeWithDiscount",
			items:    []entity.InvoiceItem{entity.NewInvoiceItem("1", "oil change", 1, 850000)},
			discount: 50000,
			want:     entity.InvoiceTotals{Subtotal: 850000, Tax: 76500, Discount: 50000, Total: 876500},
		},
		{
			name:  "RoundsTax",
			items: []entity.InvoiceItem{entity.NewInvoiceItem("1", "bolt", 1, 5)},
			want:  entity.InvoiceTotals{Subtotal: 5, Tax: 0, Total: 5},
		},
		{
			name: "Empty",
			want: entity.InvoiceTotals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.ComputeInvoiceTotals(tt.items, entity.DefaultTaxRate, tt.discount))
		})
	}

	assert.Equal(t, int64(1), entity.ComputeInvoiceTotals(
		[]entity.InvoiceItem{entity.NewInvoiceItem("1", "x", 1, 10)}, decimal.RequireFromString("0.05"), 0,
	).Tax)
}

func TestInventoryItem_Adjust(t *testing.T) {
	restocked := now.AddDate(0, 0, -7)
	item := entity.InventoryItem{Quantity: 3, LastRestocked: restocked}

	got := item.Adjust(-5, now)
	assert.Equal(t, 0, got.Quantity)
	assert.Equal(t, restocked, got.LastRestocked)

	got = item.Adjust(0, now)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, restocked, got.LastRestocked)

	got = item.Adjust(10, now)
	assert.Equal(t, 13, got.Quantity)
	assert.Equal(t, now, got.LastRestocked)
}

func TestVehiclePatch_Apply(t *testing.T) {
	v := entity.Vehicle{ID: "1", Make: "Saipa", Model: "Tiba", Mileage: 28000}

	got := entity.VehiclePatch{Color: new("white"), Mileage: new(30000)}.Apply(v)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, "Saipa", got.Make)
	assert.Equal(t, "white", got.Color)
	assert.Equal(t, 30000, got.Mileage)
}

func TestPayloadValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{ Validate() error }
		wantErr bool
	}{
		{name: "BookingOK", payload: entity.BookingPayload{Status: entity.BookingPending}},
		{name: "BookingBadStatus", payload: entity.BookingPayload{Status: "done"}, wantErr: true},
		{name: "ReviewTooHigh", payload: entity.ReviewPayload{Rating: 6}, wantErr: true},
		{name: "ReviewOK", payload: entity.ReviewPayload{Rating: 5}},
		{name: "InventoryNegative", payload: entity.InventoryPayload{Quantity: -1}, wantErr: true},
		{name: "EmployeePerformance", payload: entity.EmployeePayload{Status: entity.EmployeeActive, Performance: 101}, wantErr: true},
		{name: "EmployeeOK", payload: entity.EmployeePayload{Status: entity.EmployeeOnLeave, Performance: 80}},
		{name: "UserNoEmail", payload: entity.UserPayload{Role: entity.RoleCustomer}, wantErr: true},
		{name: "UserBadRole", payload: entity.UserPayload{Email: "a@b.c", Role: "root"}, wantErr: true},
		{name: "TransactionType", payload: entity.TransactionPayload{Type: "refund"}, wantErr: true},
		{name: "InvoiceStatus", payload: entity.InvoicePayload{Status: "void"}, wantErr: true},
		{name: "ExpenseNegative", payload: entity.ExpensePayload{Amount: -10}, wantErr: true},
		{name: "VehicleOK", payload: entity.VehiclePayload{Mileage: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalid)
				return
			}

			assert.NoError(t, err)
		})
	}
}
