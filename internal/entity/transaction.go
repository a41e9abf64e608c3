package entity

import "time"

type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a ledger line. RelatedID may point at any entity, or nothing.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      int64           `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	RelatedID   string          `json:"relatedId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type TransactionPayload struct {
	ID          string
	Type        TransactionType
	Category    string
	Amount      int64
	Date        time.Time
	Description string
	RelatedID   string
}

func (p TransactionPayload) Validate() error {
	if !p.Type.Valid() {
		return invalid("unknown transaction type %q", p.Type)
	}

	return nil
}

func NewTransaction(p TransactionPayload, genID string, now time.Time) Transaction {
	return Transaction{
		ID:          pickID(p.ID, genID),
		Type:        p.Type,
		Category:    p.Category,
		Amount:      p.Amount,
		Date:        p.Date,
		Description: p.Description,
		RelatedID:   p.RelatedID,
		CreatedAt:   now,
	}
}
