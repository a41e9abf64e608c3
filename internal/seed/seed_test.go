package seed_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/seed"
)

func TestDefault_Counts(t *testing.T) {
	set := seed.Default(time.Now())

	assert.Len(t, set.Users, 4)
	assert.Len(t, set.Services, 6)
	assert.Len(t, set.Vehicles, 2)
	assert.Len(t, set.Bookings, 4)
	assert.Len(t, set.Reviews, 2)
	assert.Len(t, set.Invoices, 2)
	assert.Len(t, set.Expenses, 3)
	assert.NotNil(t, set.Transactions)
	assert.Empty(t, set.Transactions)
	assert.Len(t, set.Employees, 2)
	assert.Len(t, set.Inventory, 4)
}

func TestDefault_IsDeterministic(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, seed.Default(now), seed.Default(now))
}

func TestInvoices_Totals(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	invoices := seed.Invoices(now)
	require.Len(t, invoices, 2)

	tests := []struct {
		idx      int
		subtotal int64
		tax      int64
		discount int64
		total    int64
		status   entity.InvoiceStatus
	}{
		{idx: 0, subtotal: 2100000, tax: 189000, total: 2289000, status: entity.InvoicePaid},
		{idx: 1, subtotal: 850000, tax: 76500, discount: 50000, total: 876500, status: entity.InvoiceSent},
	}

	for _, tt := range tests {
		inv := invoices[tt.idx]
		assert.Equal(t, tt.subtotal, inv.Subtotal)
		assert.Equal(t, tt.tax, inv.Tax)
		assert.Equal(t, tt.discount, inv.Discount)
		assert.Equal(t, tt.total, inv.Total)
		assert.Equal(t, tt.status, inv.Status)
	}

	assert.Equal(t, now.Add(-28*24*time.Hour), invoices[0].CreatedAt)
}

func TestUsers_UniqueEmails(t *testing.T) {
	seen := map[string]bool{}
	for _, u := range seed.Users(time.Now()) {
		assert.False(t, seen[u.Email], u.Email)
		seen[u.Email] = true
	}

	assert.True(t, seen[seed.AdminEmail])
	assert.True(t, seen[seed.PendingProviderEmail])
}

func TestInventory_HasLowStock(t *testing.T) {
	var low []string
	for _, item := range seed.Inventory(time.Now()) {
		if item.LowStock() {
			low = append(low, item.ID)
		}
	}

	assert.Equal(t, []string{"2", "4"}, low)
}
