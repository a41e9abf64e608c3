// Package entity holds the records the dashboard persists. Every kind has an
// immutable string ID; kinds created through the data store also have a
// payload type that omits the fields the store stamps itself.
package entity

import (
	"errors"
	"fmt"
)

// ErrInvalid marks a payload that does not conform to its entity's schema.
var ErrInvalid = errors.New("invalid entity")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Kind names one persisted collection.
type Kind string

const (
	KindUsers        Kind = "users"
	KindVehicles     Kind = "vehicles"
	KindServices     Kind = "services"
	KindBookings     Kind = "bookings"
	KindReviews      Kind = "reviews"
	KindInvoices     Kind = "invoices"
	KindExpenses     Kind = "expenses"
	KindTransactions Kind = "transactions"
	KindEmployees    Kind = "employees"
	KindInventory    Kind = "inventory"
)

// Kinds lists every collection in seeding order.
var Kinds = []Kind{
	KindUsers,
	KindServices,
	KindVehicles,
	KindBookings,
	KindReviews,
	KindInvoices,
	KindExpenses,
	KindTransactions,
	KindEmployees,
	KindInventory,
}
