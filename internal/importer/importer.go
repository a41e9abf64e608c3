package importer

import (
	"io"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

type Format string

const (
	FormatInventoryCSV Format = "inventory-csv"
)

//go:generate mockgen -source=importer.go -destination=importer_mock.go -package=importer

type Importer interface {
	Parse(r io.Reader) ([]entity.InventoryPayload, error)
}

// InventorySink receives parsed items one at a time.
type InventorySink interface {
	AddInventoryItem(p entity.InventoryPayload) (entity.InventoryItem, error)
}
