package inventorycsv

// Profile describes the header names of one inventory spreadsheet layout.
// Only Name and Quantity are required; the other columns may be missing.
type Profile struct {
	Name        string
	NameCol     string
	CategoryCol string
	QuantityCol string
	MinCol      string
	PriceCol    string
	SupplierCol string
	LocationCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.NameCol, p.QuantityCol}
}

// score counts how many of the profile's columns appear in cols.
func (p Profile) score(cols colIndex) int {
	n := 0

	for _, name := range []string{p.NameCol, p.CategoryCol, p.QuantityCol, p.MinCol, p.PriceCol, p.SupplierCol, p.LocationCol} {
		if _, ok := cols[name]; ok {
			n++
		}
	}

	return n
}

// profiles is tried in order against each row until one matches as a header.
var profiles = []Profile{
	{
		Name:        "export",
		NameCol:     "name",
		CategoryCol: "category",
		QuantityCol: "quantity",
		MinCol:      "min_quantity",
		PriceCol:    "unit_price",
		SupplierCol: "supplier",
		LocationCol: "location",
	},
	{
		Name:        "camel",
		NameCol:     "name",
		CategoryCol: "category",
		QuantityCol: "quantity",
		MinCol:      "minQuantity",
		PriceCol:    "unitPrice",
		SupplierCol: "supplier",
		LocationCol: "location",
	},
	{
		Name:        "persian",
		NameCol:     "نام قطعه",
		CategoryCol: "دسته‌بندی",
		QuantityCol: "موجودی",
		MinCol:      "حداقل موجودی",
		PriceCol:    "قیمت واحد",
		SupplierCol: "تأمین‌کننده",
		LocationCol: "محل نگهداری",
	},
}
