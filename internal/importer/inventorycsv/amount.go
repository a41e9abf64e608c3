package inventorycsv

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// digits maps Persian and Arabic-Indic digits and separators to ASCII.
var digits = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٬", "", "٫", ".", ",", "", " ", "",
)

// parsePrice reads a whole-rial amount such as "2,800,000" or "۱۸۰٬۰۰۰".
// Fractions are rounded. An empty cell is zero.
func parsePrice(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(digits.Replace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	return d.Round(0).IntPart(), nil
}

func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(digits.Replace(s))
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("invalid count %q", s)
	}

	return int(d.IntPart()), nil
}
