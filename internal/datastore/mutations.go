package datastore

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

func (s *Store) AddBooking(p entity.BookingPayload) (entity.Booking, error) {
	if err := p.Validate(); err != nil {
		return entity.Booking{}, invalidPayload(err)
	}

	var created entity.Booking

	err := s.mutate(entity.KindBookings, func() (bool, error) {
		created = entity.NewBooking(p, s.newID(), s.now())
		if hasID(s.data.Bookings, created.ID, bookingID) {
			return false, invalidPayload(fmt.Errorf("booking %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Bookings, &s.data.Bookings, append(slices.Clone(s.data.Bookings), created))
	})
	if err != nil {
		return entity.Booking{}, fmt.Errorf("adding booking: %w", err)
	}

	return created, nil
}

// UpdateBookingStatus replaces the status of one booking. An unknown id or an
// unchanged status does nothing. With strict transitions on, a move the
// booking state machine does not allow fails with ErrInvalidTransition.
func (s *Store) UpdateBookingStatus(id string, status entity.BookingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("updating booking %s: %w", id, invalidPayload(fmt.Errorf("unknown status %q", status)))
	}

	err := s.mutate(entity.KindBookings, func() (bool, error) {
		i := slices.IndexFunc(s.data.Bookings, func(b entity.Booking) bool { return b.ID == id })
		if i < 0 || s.data.Bookings[i].Status == status {
			return false, nil
		}

		from := s.data.Bookings[i].Status
		if s.strict && !from.CanTransitionTo(status) {
			return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, status)
		}

		next := slices.Clone(s.data.Bookings)
		next[i].Status = status

		return true, persist(s, s.repo.Bookings, &s.data.Bookings, next)
	})
	if err != nil {
		return fmt.Errorf("updating booking %s: %w", id, err)
	}

	return nil
}

func (s *Store) DeleteBooking(id string) error {
	err := s.mutate(entity.KindBookings, func() (bool, error) {
		next, removed := without(s.data.Bookings, id, bookingID)
		if !removed {
			return false, nil
		}

		return true, persist(s, s.repo.Bookings, &s.data.Bookings, next)
	})
	if err != nil {
		return fmt.Errorf("deleting booking %s: %w", id, err)
	}

	return nil
}

// AddInvoice keeps a caller-supplied CreatedAt so invoices can be backdated.
func (s *Store) AddInvoice(p entity.InvoicePayload) (entity.Invoice, error) {
	if err := p.Validate(); err != nil {
		return entity.Invoice{}, invalidPayload(err)
	}

	var created entity.Invoice

	err := s.mutate(entity.KindInvoices, func() (bool, error) {
		created = entity.NewInvoice(p, s.newID(), s.now())
		if hasID(s.data.Invoices, created.ID, invoiceID) {
			return false, invalidPayload(fmt.Errorf("invoice %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Invoices, &s.data.Invoices, append(slices.Clone(s.data.Invoices), created))
	})
	if err != nil {
		return entity.Invoice{}, fmt.Errorf("adding invoice: %w", err)
	}

	created.Items = slices.Clone(created.Items)

	return created, nil
}

func (s *Store) UpdateInvoiceStatus(id string, status entity.InvoiceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("updating invoice %s: %w", id, invalidPayload(fmt.Errorf("unknown status %q", status)))
	}

	err := s.mutate(entity.KindInvoices, func() (bool, error) {
		i := slices.IndexFunc(s.data.Invoices, func(inv entity.Invoice) bool { return inv.ID == id })
		if i < 0 || s.data.Invoices[i].Status == status {
			return false, nil
		}

		next := slices.Clone(s.data.Invoices)
		next[i].Status = status

		return true, persist(s, s.repo.Invoices, &s.data.Invoices, next)
	})
	if err != nil {
		return fmt.Errorf("updating invoice %s: %w", id, err)
	}

	return nil
}

// MarkOverdueInvoices moves every sent invoice whose due date has passed to
// overdue in a single write and returns how many changed.
func (s *Store) MarkOverdueInvoices() (int, error) {
	var n int

	err := s.mutate(entity.KindInvoices, func() (bool, error) {
		now := s.now()
		next := slices.Clone(s.data.Invoices)

		for i := range next {
			if next[i].Status == entity.InvoiceSent && next[i].DueDate.Before(now) {
				next[i].Status = entity.InvoiceOverdue
				n++
			}
		}

		if n == 0 {
			return false, nil
		}

		return true, persist(s, s.repo.Invoices, &s.data.Invoices, next)
	})
	if err != nil {
		return 0, fmt.Errorf("marking overdue invoices: %w", err)
	}

	return n, nil
}

// AddExpense always generates the id.
func (s *Store) AddExpense(p entity.ExpensePayload) (entity.Expense, error) {
	if err := p.Validate(); err != nil {
		return entity.Expense{}, invalidPayload(err)
	}

	var created entity.Expense

	err := s.mutate(entity.KindExpenses, func() (bool, error) {
		created = entity.NewExpense(p, s.newID(), s.now())

		return true, persist(s, s.repo.Expenses, &s.data.Expenses, append(slices.Clone(s.data.Expenses), created))
	})
	if err != nil {
		return entity.Expense{}, fmt.Errorf("adding expense: %w", err)
	}

	return created, nil
}

func (s *Store) AddEmployee(p entity.EmployeePayload) (entity.Employee, error) {
	if err := p.Validate(); err != nil {
		return entity.Employee{}, invalidPayload(err)
	}

	var created entity.Employee

	err := s.mutate(entity.KindEmployees, func() (bool, error) {
		created = entity.NewEmployee(p, s.newID())
		if hasID(s.data.Employees, created.ID, employeeID) {
			return false, invalidPayload(fmt.Errorf("employee %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Employees, &s.data.Employees, append(slices.Clone(s.data.Employees), created))
	})
	if err != nil {
		return entity.Employee{}, fmt.Errorf("adding employee: %w", err)
	}

	created.Skills = slices.Clone(created.Skills)

	return created, nil
}

func (s *Store) UpdateEmployeeStatus(id string, status entity.EmployeeStatus) error {
	if !status.Valid() {
		return fmt.Errorf("updating employee %s: %w", id, invalidPayload(fmt.Errorf("unknown status %q", status)))
	}

	err := s.mutate(entity.KindEmployees, func() (bool, error) {
		i := slices.IndexFunc(s.data.Employees, func(e entity.Employee) bool { return e.ID == id })
		if i < 0 || s.data.Employees[i].Status == status {
			return false, nil
		}

		next := slices.Clone(s.data.Employees)
		next[i].Status = status

		return true, persist(s, s.repo.Employees, &s.data.Employees, next)
	})
	if err != nil {
		return fmt.Errorf("updating employee %s: %w", id, err)
	}

	return nil
}

func (s *Store) AddInventoryItem(p entity.InventoryPayload) (entity.InventoryItem, error) {
	if err := p.Validate(); err != nil {
		return entity.InventoryItem{}, invalidPayload(err)
	}

	var created entity.InventoryItem

	err := s.mutate(entity.KindInventory, func() (bool, error) {
		created = entity.NewInventoryItem(p, s.newID(), s.now())
		if hasID(s.data.Inventory, created.ID, inventoryID) {
			return false, invalidPayload(fmt.Errorf("inventory item %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Inventory, &s.data.Inventory, append(slices.Clone(s.data.Inventory), created))
	})
	if err != nil {
		return entity.InventoryItem{}, fmt.Errorf("adding inventory item: %w", err)
	}

	return created, nil
}

// AdjustInventoryQuantity applies a signed delta. The quantity never drops
// below zero and only a positive delta stamps LastRestocked.
func (s *Store) AdjustInventoryQuantity(id string, delta int) error {
	err := s.mutate(entity.KindInventory, func() (bool, error) {
		i := slices.IndexFunc(s.data.Inventory, func(it entity.InventoryItem) bool { return it.ID == id })
		if i < 0 {
			return false, nil
		}

		next := slices.Clone(s.data.Inventory)
		next[i] = next[i].Adjust(delta, s.now())

		if next[i] == s.data.Inventory[i] {
			return false, nil
		}

		return true, persist(s, s.repo.Inventory, &s.data.Inventory, next)
	})
	if err != nil {
		return fmt.Errorf("adjusting inventory item %s: %w", id, err)
	}

	return nil
}

func (s *Store) AddVehicle(p entity.VehiclePayload) (entity.Vehicle, error) {
	if err := p.Validate(); err != nil {
		return entity.Vehicle{}, invalidPayload(err)
	}

	var created entity.Vehicle

	err := s.mutate(entity.KindVehicles, func() (bool, error) {
		created = entity.NewVehicle(p, s.newID())
		if hasID(s.data.Vehicles, created.ID, vehicleID) {
			return false, invalidPayload(fmt.Errorf("vehicle %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Vehicles, &s.data.Vehicles, append(slices.Clone(s.data.Vehicles), created))
	})
	if err != nil {
		return entity.Vehicle{}, fmt.Errorf("adding vehicle: %w", err)
	}

	return created, nil
}

// UpdateVehicle shallow-merges patch into the matching vehicle.
func (s *Store) UpdateVehicle(id string, patch entity.VehiclePatch) error {
	if patch.Mileage != nil && *patch.Mileage < 0 {
		return fmt.Errorf("updating vehicle %s: %w", id, invalidPayload(errors.New("negative mileage")))
	}

	err := s.mutate(entity.KindVehicles, func() (bool, error) {
		i := slices.IndexFunc(s.data.Vehicles, func(v entity.Vehicle) bool { return v.ID == id })
		if i < 0 {
			return false, nil
		}

		next := slices.Clone(s.data.Vehicles)
		next[i] = patch.Apply(next[i])

		if next[i] == s.data.Vehicles[i] {
			return false, nil
		}

		return true, persist(s, s.repo.Vehicles, &s.data.Vehicles, next)
	})
	if err != nil {
		return fmt.Errorf("updating vehicle %s: %w", id, err)
	}

	return nil
}

// DeleteVehicle leaves bookings that reference the vehicle in place.
func (s *Store) DeleteVehicle(id string) error {
	err := s.mutate(entity.KindVehicles, func() (bool, error) {
		next, removed := without(s.data.Vehicles, id, vehicleID)
		if !removed {
			return false, nil
		}

		return true, persist(s, s.repo.Vehicles, &s.data.Vehicles, next)
	})
	if err != nil {
		return fmt.Errorf("deleting vehicle %s: %w", id, err)
	}

	return nil
}

func (s *Store) UpdateUserApproval(id string, approved bool) error {
	err := s.mutate(entity.KindUsers, func() (bool, error) {
		i := slices.IndexFunc(s.data.Users, func(u entity.User) bool { return u.ID == id })
		if i < 0 || s.data.Users[i].IsApproved == approved {
			return false, nil
		}

		next := slices.Clone(s.data.Users)
		next[i].IsApproved = approved

		return true, persist(s, s.repo.Users, &s.data.Users, next)
	})
	if err != nil {
		return fmt.Errorf("updating approval for user %s: %w", id, err)
	}

	return nil
}

// RegisterUser creates an account. Emails are unique ignoring case.
func (s *Store) RegisterUser(p entity.UserPayload) (entity.User, error) {
	if err := p.Validate(); err != nil {
		return entity.User{}, invalidPayload(err)
	}

	var created entity.User

	err := s.mutate(entity.KindUsers, func() (bool, error) {
		created = entity.NewUser(p, s.newID(), s.now())

		taken := slices.ContainsFunc(s.data.Users, func(u entity.User) bool {
			return strings.EqualFold(u.Email, created.Email)
		})
		if taken {
			return false, fmt.Errorf("%w: %s", ErrEmailTaken, created.Email)
		}

		return true, persist(s, s.repo.Users, &s.data.Users, append(slices.Clone(s.data.Users), created))
	})
	if err != nil {
		return entity.User{}, fmt.Errorf("registering user: %w", err)
	}

	return created, nil
}

func (s *Store) AddReview(p entity.ReviewPayload) (entity.Review, error) {
	if err := p.Validate(); err != nil {
		return entity.Review{}, invalidPayload(err)
	}

	var created entity.Review

	err := s.mutate(entity.KindReviews, func() (bool, error) {
		created = entity.NewReview(p, s.newID(), s.now())
		if hasID(s.data.Reviews, created.ID, reviewID) {
			return false, invalidPayload(fmt.Errorf("review %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Reviews, &s.data.Reviews, append(slices.Clone(s.data.Reviews), created))
	})
	if err != nil {
		return entity.Review{}, fmt.Errorf("adding review: %w", err)
	}

	return created, nil
}

func (s *Store) AddTransaction(p entity.TransactionPayload) (entity.Transaction, error) {
	if err := p.Validate(); err != nil {
		return entity.Transaction{}, invalidPayload(err)
	}

	var created entity.Transaction

	err := s.mutate(entity.KindTransactions, func() (bool, error) {
		created = entity.NewTransaction(p, s.newID(), s.now())
		if hasID(s.data.Transactions, created.ID, transactionID) {
			return false, invalidPayload(fmt.Errorf("transaction %s already exists", created.ID))
		}

		return true, persist(s, s.repo.Transactions, &s.data.Transactions, append(slices.Clone(s.data.Transactions), created))
	})
	if err != nil {
		return entity.Transaction{}, fmt.Errorf("adding transaction: %w", err)
	}

	return created, nil
}

func bookingID(b entity.Booking) string { return b.ID }
func invoiceID(i entity.Invoice) string { return i.ID }
func employeeID(e entity.Employee) string { return e.ID }
func inventoryID(i entity.InventoryItem) string { return i.ID }
func vehicleID(v entity.Vehicle) string { return v.ID }
func reviewID(r entity.Review) string { return r.ID }
func transactionID(t entity.Transaction) string { return t.ID }

func hasID[T any](items []T, id string, idOf func(T) string) bool {
	return slices.ContainsFunc(items, func(it T) bool { return idOf(it) == id })
}

// without returns items minus every record with id, and whether any was
// dropped.
func without[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	next := slices.DeleteFunc(slices.Clone(items), func(it T) bool { return idOf(it) == id })

	return next, len(next) != len(items)
}
