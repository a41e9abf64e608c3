package entity

import "time"

type InventoryItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	MinQuantity   int       `json:"minQuantity"`
	UnitPrice     int64     `json:"unitPrice"`
	Supplier      string    `json:"supplier"`
	LastRestocked time.Time `json:"lastRestocked"`
	Location      string    `json:"location"`
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// Adjust applies a signed delta, flooring the quantity at zero. Only a
// positive delta counts as a restock.
func (i InventoryItem) Adjust(delta int, now time.Time) InventoryItem {
	i.Quantity = max(0, i.Quantity+delta)
	if delta > 0 {
		i.LastRestocked = now
	}

	return i
}

type InventoryPayload struct {
	ID            string
	Name          string
	Category      string
	Quantity      int
	MinQuantity   int
	UnitPrice     int64
	Supplier      string
	LastRestocked time.Time
	Location      string
}

func (p InventoryPayload) Validate() error {
	if p.Quantity < 0 {
		return invalid("inventory quantity must not be negative")
	}

	if p.MinQuantity < 0 {
		return invalid("inventory minimum quantity must not be negative")
	}

	return nil
}

// NewInventoryItem stamps LastRestocked with now unless the payload carries
// its own restock date.
func NewInventoryItem(p InventoryPayload, genID string, now time.Time) InventoryItem {
	restocked := p.LastRestocked
	if restocked.IsZero() {
		restocked = now
	}

	return InventoryItem{
		ID:            pickID(p.ID, genID),
		Name:          p.Name,
		Category:      p.Category,
		Quantity:      p.Quantity,
		MinQuantity:   p.MinQuantity,
		UnitPrice:     p.UnitPrice,
		Supplier:      p.Supplier,
		LastRestocked: restocked,
		Location:      p.Location,
	}
}
