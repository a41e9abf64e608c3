package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         string    `json:"id"`
	BookingID  string    `json:"bookingId"`
	CustomerID string    `json:"customerId"`
	ProviderID string    `json:"providerId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

type ReviewPayload struct {
	ID         string
	BookingID  string
	CustomerID string
	ProviderID string
	Rating     int
	Comment    string
}

func (p ReviewPayload) Validate() error {
	if p.Rating < MinRating || p.Rating > MaxRating {
		return invalid("rating %d outside %d..%d", p.Rating, MinRating, MaxRating)
	}

	return nil
}

func NewReview(p ReviewPayload, genID string, now time.Time) Review {
	return Review{
		ID:         pickID(p.ID, genID),
		BookingID:  p.BookingID,
		CustomerID: p.CustomerID,
		ProviderID: p.ProviderID,
		Rating:     p.Rating,
		Comment:    p.Comment,
		CreatedAt:  now,
	}
}
