package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/importer/inventorycsv"
)

type Service struct {
	inventoryCSV Importer
}

func NewService() *Service {
	return NewServiceWith(inventorycsv.NewParser())
}

// NewServiceWith builds a Service around the given inventory CSV importer.
func NewServiceWith(inventoryCSV Importer) *Service {
	return &Service{
		inventoryCSV: inventoryCSV,
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]entity.InventoryPayload, error) {
	var importer Importer

	switch format {
	case FormatInventoryCSV:
		importer = s.inventoryCSV
	default:
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	return importer.Parse(r)
}

// ImportInto parses r and adds every item to sink in file order. Items added
// before a failure stay added; the count says how many made it.
func (s *Service) ImportInto(format Format, r io.Reader, sink InventorySink) (int, error) {
	items, err := s.Import(format, r)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", format, err)
	}

	for i, item := range items {
		if _, err := sink.AddInventoryItem(item); err != nil {
			return i, fmt.Errorf("adding %q: %w", item.Name, err)
		}
	}

	return len(items), nil
}
