package entity

import "time"

type Expense struct {
	ID            string    `json:"id"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	PaymentMethod string    `json:"paymentMethod"`
	ProviderID    string    `json:"providerId,omitempty"`
	InvoiceNumber string    `json:"invoiceNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ExpensePayload has no ID or CreatedAt: both are always stamped on creation.
type ExpensePayload struct {
	Category      string
	Description   string
	Amount        int64
	Date          time.Time
	PaymentMethod string
	ProviderID    string
	InvoiceNumber string
}

func (p ExpensePayload) Validate() error {
	if p.Amount < 0 {
		return invalid("expense amount must not be negative")
	}

	return nil
}

func NewExpense(p ExpensePayload, id string, now time.Time) Expense {
	return Expense{
		ID:            id,
		Category:      p.Category,
		Description:   p.Description,
		Amount:        p.Amount,
		Date:          p.Date,
		PaymentMethod: p.PaymentMethod,
		ProviderID:    p.ProviderID,
		InvoiceNumber: p.InvoiceNumber,
		CreatedAt:     now,
	}
}
