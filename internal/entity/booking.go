package entity

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}

	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s.Valid() && len(bookingTransitions[s]) == 0
}

// Next lists the statuses reachable from s in one step.
func (s BookingStatus) Next() []BookingStatus {
	return append([]BookingStatus(nil), bookingTransitions[s]...)
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type Booking struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customerId"`
	ProviderID  string        `json:"providerId"`
	VehicleID   string        `json:"vehicleId"`
	ServiceID   string        `json:"serviceId"`
	ScheduledAt time.Time     `json:"scheduledAt"`
	Status      BookingStatus `json:"status"`
	Price       int64         `json:"price"`
	Notes       string        `json:"notes,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// BookingPayload creates a booking. ID is optional; CreatedAt is always stamped.
type BookingPayload struct {
	ID          string
	CustomerID  string
	ProviderID  string
	VehicleID   string
	ServiceID   string
	ScheduledAt time.Time
	Status      BookingStatus
	Price       int64
	Notes       string
}

func (p BookingPayload) Validate() error {
	if !p.Status.Valid() {
		return invalid("unknown booking status %q", p.Status)
	}

	if p.Price < 0 {
		return invalid("booking price must not be negative")
	}

	return nil
}

func NewBooking(p BookingPayload, genID string, now time.Time) Booking {
	return Booking{
		ID:          pickID(p.ID, genID),
		CustomerID:  p.CustomerID,
		ProviderID:  p.ProviderID,
		VehicleID:   p.VehicleID,
		ServiceID:   p.ServiceID,
		ScheduledAt: p.ScheduledAt,
		Status:      p.Status,
		Price:       p.Price,
		Notes:       p.Notes,
		CreatedAt:   now,
	}
}
