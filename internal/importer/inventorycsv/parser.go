package inventorycsv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"

	enc "github.com/MrJamesThe3rd/mechanico/internal/encoding"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

// Parser reads inventory spreadsheets exported as CSV. Legacy files are
// assumed to be Windows-1256, which is what Persian Excel writes.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]entity.InventoryPayload, error) {
	utf8r, err := enc.NewUTF8Reader(r, enc.WithLegacy(charmap.Windows1256))
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	head, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = sniffComma(head)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching inventory layout found: expected at least name and quantity columns")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffComma picks ';' when the first line has more semicolons than commas.
func sniffComma(head []byte) rune {
	line, _, _ := bytes.Cut(head, []byte("\n"))
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}

	return ','
}

type colIndex map[string]int

// detectProfile returns the first row that satisfies some profile, paired
// with the profile that recognises the most of its columns.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, header := range row {
			name := strings.TrimSpace(header)
			if name != "" {
				cols[name] = i
			}
		}

		var (
			best      *Profile
			bestScore int
		)

		for i := range profiles {
			if !matchesProfile(&profiles[i], cols) {
				continue
			}

			if score := profiles[i].score(cols); score > bestScore {
				best, bestScore = &profiles[i], score
			}
		}

		if best != nil {
			return best, cols, rowIdx
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips blank lines. Any other row that cannot be read is an
// error naming its 1-based line.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]entity.InventoryPayload, error) {
	var items []entity.InventoryPayload

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		name := cell(row, cols, p.NameCol)
		if name == "" && blank(row) {
			continue
		}

		if name == "" {
			return nil, fmt.Errorf("row %d: missing name", rowNum)
		}

		qty, err := parseCount(cell(row, cols, p.QuantityCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: quantity: %w", rowNum, err)
		}

		minQty, err := parseCount(cell(row, cols, p.MinCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: minimum quantity: %w", rowNum, err)
		}

		price, err := parsePrice(cell(row, cols, p.PriceCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: unit price: %w", rowNum, err)
		}

		item := entity.InventoryPayload{
			Name:        name,
			Category:    cell(row, cols, p.CategoryCol),
			Quantity:    qty,
			MinQuantity: minQty,
			UnitPrice:   price,
			Supplier:    cell(row, cols, p.SupplierCol),
			Location:    cell(row, cols, p.LocationCol),
		}

		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		items = append(items, item)
	}

	return items, nil
}

func cell(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
