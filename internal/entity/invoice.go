package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}

	return false
}

// DefaultTaxRate is the VAT applied to invoice subtotals.
var DefaultTaxRate = decimal.RequireFromString("0.09")

type InvoiceItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Total       int64  `json:"total"`
}

func NewInvoiceItem(id, description string, quantity int, unitPrice int64) InvoiceItem {
	return InvoiceItem{
		ID:          id,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       int64(quantity) * unitPrice,
	}
}

type Invoice struct {
	ID            string        `json:"id"`
	BookingID     string        `json:"bookingId"`
	CustomerID    string        `json:"customerId"`
	ProviderID    string        `json:"providerId"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Date          time.Time     `json:"date"`
	DueDate       time.Time     `json:"dueDate"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Discount      int64         `json:"discount"`
	Total         int64         `json:"total"`
	Status        InvoiceStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// InvoicePayload creates an invoice. ID is optional and a non-zero CreatedAt
// is kept so invoices can be backdated.
type InvoicePayload struct {
	ID            string
	BookingID     string
	CustomerID    string
	ProviderID    string
	InvoiceNumber string
	Date          time.Time
	DueDate       time.Time
	Items         []InvoiceItem
	Subtotal      int64
	Tax           int64
	Discount      int64
	Total         int64
	Status        InvoiceStatus
	Notes         string
	CreatedAt     time.Time
}

func (p InvoicePayload) Validate() error {
	if !p.Status.Valid() {
		return invalid("unknown invoice status %q", p.Status)
	}

	return nil
}

func NewInvoice(p InvoicePayload, genID string, now time.Time) Invoice {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return Invoice{
		ID:            pickID(p.ID, genID),
		BookingID:     p.BookingID,
		CustomerID:    p.CustomerID,
		ProviderID:    p.ProviderID,
		InvoiceNumber: p.InvoiceNumber,
		Date:          p.Date,
		DueDate:       p.DueDate,
		Items:         append([]InvoiceItem{}, p.Items...),
		Subtotal:      p.Subtotal,
		Tax:           p.Tax,
		Discount:      p.Discount,
		Total:         p.Total,
		Status:        p.Status,
		Notes:         p.Notes,
		CreatedAt:     createdAt,
	}
}

type InvoiceTotals struct {
	Subtotal int64
	Tax      int64
	Discount int64
	Total    int64
}

// ComputeInvoiceTotals sums the item totals, applies taxRate to the subtotal
// (rounded half away from zero to whole units) and subtracts discount.
func ComputeInvoiceTotals(items []InvoiceItem, taxRate decimal.Decimal, discount int64) InvoiceTotals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Total
	}

	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()

	return InvoiceTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal + tax - discount,
	}
}

// WithTotals copies t into the payload's amount fields.
func (p InvoicePayload) WithTotals(t InvoiceTotals) InvoicePayload {
	p.Subtotal = t.Subtotal
	p.Tax = t.Tax
	p.Discount = t.Discount
	p.Total = t.Total

	return p
}
