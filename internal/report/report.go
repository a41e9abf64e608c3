// Package report derives the dashboard figures from collection snapshots.
// Nothing here writes; every function is a pure read.
package report

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

type AccountingSummary struct {
	TotalIncome     int64
	TotalExpenses   int64
	NetProfit       int64
	PendingPayments int64
}

// Accounting counts only paid invoices as income. Sent and overdue invoices
// are money still owed.
func Accounting(invoices []entity.Invoice, expenses []entity.Expense) AccountingSummary {
	var sum AccountingSummary

	for _, inv := range invoices {
		switch inv.Status {
		case entity.InvoicePaid:
			sum.TotalIncome += inv.Total
		case entity.InvoiceSent, entity.InvoiceOverdue:
			sum.PendingPayments += inv.Total
		}
	}

	for _, e := range expenses {
		sum.TotalExpenses += e.Amount
	}

	sum.NetProfit = sum.TotalIncome - sum.TotalExpenses

	return sum
}

type MonthTotals struct {
	Year     int
	Month    time.Month
	Income   int64
	Expenses int64
	Profit   int64
}

// Monthly buckets paid income and expenses by calendar month in loc, oldest
// first. Months with neither are omitted.
func Monthly(invoices []entity.Invoice, expenses []entity.Expense, loc *time.Location) []MonthTotals {
	type ym struct {
		year  int
		month time.Month
	}

	buckets := map[ym]*MonthTotals{}

	bucket := func(t time.Time) *MonthTotals {
		t = t.In(loc)
		k := ym{t.Year(), t.Month()}

		b, ok := buckets[k]
		if !ok {
			b = &MonthTotals{Year: k.year, Month: k.month}
			buckets[k] = b
		}

		return b
	}

	for _, inv := range invoices {
		if inv.Status == entity.InvoicePaid {
			bucket(inv.Date).Income += inv.Total
		}
	}

	for _, e := range expenses {
		bucket(e.Date).Expenses += e.Amount
	}

	out := make([]MonthTotals, 0, len(buckets))
	for _, b := range buckets {
		b.Profit = b.Income - b.Expenses
		out = append(out, *b)
	}

	slices.SortFunc(out, func(a, b MonthTotals) int {
		return cmp.Or(cmp.Compare(a.Year, b.Year), cmp.Compare(a.Month, b.Month))
	})

	return out
}

func LowStock(items []entity.InventoryItem) []entity.InventoryItem {
	var low []entity.InventoryItem

	for _, it := range items {
		if it.LowStock() {
			low = append(low, it)
		}
	}

	return low
}

type CategoryStock struct {
	Name  string
	Count int
	Value int64
}

type InventorySummary struct {
	TotalUnits    int
	LowStockCount int
	TotalValue    int64
	Categories    []CategoryStock
}

// Inventory lists categories in the order they first appear.
func Inventory(items []entity.InventoryItem) InventorySummary {
	var (
		sum   InventorySummary
		index = map[string]int{}
	)

	for _, it := range items {
		value := int64(it.Quantity) * it.UnitPrice

		sum.TotalUnits += it.Quantity
		sum.TotalValue += value

		if it.LowStock() {
			sum.LowStockCount++
		}

		i, ok := index[it.Category]
		if !ok {
			i = len(sum.Categories)
			index[it.Category] = i
			sum.Categories = append(sum.Categories, CategoryStock{Name: it.Category})
		}

		sum.Categories[i].Count++
		sum.Categories[i].Value += value
	}

	return sum
}

type ProviderRating struct {
	ProviderID string
	Average    decimal.Decimal
	Count      int
}

// ProviderRatings averages to one decimal place, ordered by provider id.
func ProviderRatings(reviews []entity.Review) []ProviderRating {
	totals := map[string]*ProviderRating{}
	sums := map[string]int64{}

	for _, r := range reviews {
		pr, ok := totals[r.ProviderID]
		if !ok {
			pr = &ProviderRating{ProviderID: r.ProviderID}
			totals[r.ProviderID] = pr
		}

		pr.Count++
		sums[r.ProviderID] += int64(r.Rating)
	}

	out := make([]ProviderRating, 0, len(totals))

	for _, id := range slices.Sorted(maps.Keys(totals)) {
		pr := totals[id]
		pr.Average = average(sums[id], pr.Count)
		out = append(out, *pr)
	}

	return out
}

// AverageRating is zero when there are no reviews.
func AverageRating(reviews []entity.Review) decimal.Decimal {
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}

	return average(sum, len(reviews))
}

func average(sum int64, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}

	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(n))).Round(1)
}

// BookingCounts always has an entry for every status.
func BookingCounts(bookings []entity.Booking) map[entity.BookingStatus]int {
	counts := map[entity.BookingStatus]int{
		entity.BookingPending:    0,
		entity.BookingConfirmed:  0,
		entity.BookingInProgress: 0,
		entity.BookingCompleted:  0,
		entity.BookingCancelled:  0,
	}

	for _, b := range bookings {
		counts[b.Status]++
	}

	return counts
}

// RepeatCustomerRate is the rounded percentage of booking customers with more
// than one booking.
func RepeatCustomerRate(bookings []entity.Booking) int {
	perCustomer := map[string]int{}
	for _, b := range bookings {
		perCustomer[b.CustomerID]++
	}

	if len(perCustomer) == 0 {
		return 0
	}

	repeat := 0

	for _, n := range perCustomer {
		if n > 1 {
			repeat++
		}
	}

	return int(decimal.NewFromInt(int64(repeat * 100)).Div(decimal.NewFromInt(int64(len(perCustomer)))).Round(0).IntPart())
}

type ServiceCount struct {
	ServiceID string
	Name      string
	Count     int
}

// ServicePopularity ranks services by booking count, ties kept in catalogue
// order. limit <= 0 returns every service.
func ServicePopularity(services []entity.Service, bookings []entity.Booking, limit int) []ServiceCount {
	per := map[string]int{}
	for _, b := range bookings {
		per[b.ServiceID]++
	}

	out := make([]ServiceCount, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceCount{ServiceID: s.ID, Name: s.Name, Count: per[s.ID]})
	}

	slices.SortStableFunc(out, func(a, b ServiceCount) int { return cmp.Compare(b.Count, a.Count) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

type OverviewSummary struct {
	TotalBookings     int
	CompletedBookings int
	CompletedRevenue  int64
	TotalUsers        int
	TotalCustomers    int
	AverageRating     decimal.Decimal
	ReviewCount       int
	RepeatRate        int
	Accounting        AccountingSummary
	TopServices       []ServiceCount
}

// Overview gathers the headline figures shown on the landing screen.
func Overview(s datastore.Snapshot) OverviewSummary {
	o := OverviewSummary{
		TotalBookings: len(s.Bookings),
		TotalUsers:    len(s.Users),
		AverageRating: AverageRating(s.Reviews),
		ReviewCount:   len(s.Reviews),
		RepeatRate:    RepeatCustomerRate(s.Bookings),
		Accounting:    Accounting(s.Invoices, s.Expenses),
		TopServices:   ServicePopularity(s.Services, s.Bookings, 5),
	}

	for _, b := range s.Bookings {
		if b.Status == entity.BookingCompleted {
			o.CompletedBookings++
			o.CompletedRevenue += b.Price
		}
	}

	for _, u := range s.Users {
		if u.Role == entity.RoleCustomer {
			o.TotalCustomers++
		}
	}

	return o
}
