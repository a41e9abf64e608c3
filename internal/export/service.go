package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/mechanico/internal/datastore"
	"github.com/MrJamesThe3rd/mechanico/internal/entity"
	"github.com/MrJamesThe3rd/mechanico/internal/report"
)

// Source is anything that can hand out a consistent copy of the data.
type Source interface {
	Snapshot() datastore.Snapshot
}

// Item is one written report file.
type Item struct {
	Name     string
	FilePath string
	Rows     int
}

// Service writes the downloadable reports.
type Service struct {
	source Source
	now    func() time.Time
}

// NewService creates a new export Service.
func NewService(source Source) *Service {
	return &Service{
		source: source,
		now:    time.Now,
	}
}

// Export writes the accounting and inventory reports into outputDir, plus one
// PDF per invoice under outputDir/invoices, all taken from the same snapshot.
func (s *Service) Export(outputDir string) ([]Item, error) {
	snap := s.source.Snapshot()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	stamp := s.now().Format("20060102")

	reports := []struct {
		name  string
		rows  int
		write func(io.Writer) error
	}{
		{
			name: "accounting",
			rows: len(snap.Invoices) + len(snap.Expenses),
			write: func(w io.Writer) error {
				return WriteAccountingCSV(w, report.Accounting(snap.Invoices, snap.Expenses), snap.Invoices, snap.Expenses)
			},
		},
		{
			name: "inventory",
			rows: len(snap.Inventory),
			write: func(w io.Writer) error {
				return WriteInventoryCSV(w, snap.Inventory)
			},
		},
	}

	items := make([]Item, 0, len(reports))

	for _, r := range reports {
		path := filepath.Join(outputDir, fmt.Sprintf("%s_%s.csv", stamp, r.name))

		if err := writeFile(path, r.write); err != nil {
			return nil, fmt.Errorf("writing %s report: %w", r.name, err)
		}

		items = append(items, Item{Name: r.name, FilePath: path, Rows: r.rows})
	}

	invoiceDir := filepath.Join(outputDir, "invoices")
	if err := os.MkdirAll(invoiceDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating invoice directory: %w", err)
	}

	customers := make(map[string]entity.User, len(snap.Users))
	for _, u := range snap.Users {
		customers[u.ID] = u
	}

	for _, inv := range snap.Invoices {
		path := filepath.Join(invoiceDir, invoiceFileName(inv))

		err := writeFile(path, func(w io.Writer) error {
			return WriteInvoicePDF(w, inv, customers[inv.CustomerID])
		})
		if err != nil {
			return nil, fmt.Errorf("writing invoice %s: %w", inv.InvoiceNumber, err)
		}
	}

	items = append(items, Item{Name: "invoices", FilePath: invoiceDir, Rows: len(snap.Invoices)})

	return items, nil
}

func invoiceFileName(inv entity.Invoice) string {
	name := inv.InvoiceNumber
	if name == "" {
		name = inv.ID
	}

	return strings.NewReplacer("/", "-", "\\", "-", "..", "-").Replace(name) + ".pdf"
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// WriteAccountingCSV writes the summary rows followed by one row per invoice
// and one per expense, all in the same six columns.
func WriteAccountingCSV(w io.Writer, sum report.AccountingSummary, invoices []entity.Invoice, expenses []entity.Expense) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"kind", "reference", "date", "status", "description", "amount"},
		{"summary", "total_income", "", "", "", amount(sum.TotalIncome)},
		{"summary", "total_expenses", "", "", "", amount(sum.TotalExpenses)},
		{"summary", "net_profit", "", "", "", amount(sum.NetProfit)},
		{"summary", "pending_payments", "", "", "", amount(sum.PendingPayments)},
	}

	for _, inv := range invoices {
		rows = append(rows, []string{"invoice", inv.InvoiceNumber, date(inv.Date), string(inv.Status), inv.Notes, amount(inv.Total)})
	}

	for _, e := range expenses {
		rows = append(rows, []string{"expense", e.InvoiceNumber, date(e.Date), e.Category, e.Description, amount(-e.Amount)})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing accounting csv: %w", err)
	}

	return nil
}

func WriteInventoryCSV(w io.Writer, items []entity.InventoryItem) error {
	cw := csv.NewWriter(w)

	rows := [][]string{{"id", "name", "category", "quantity", "min_quantity", "unit_price", "supplier", "location", "last_restocked", "low_stock"}}

	for _, it := range items {
		rows = append(rows, []string{
			it.ID,
			it.Name,
			it.Category,
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MinQuantity),
			amount(it.UnitPrice),
			it.Supplier,
			it.Location,
			date(it.LastRestocked),
			strconv.FormatBool(it.LowStock()),
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing inventory csv: %w", err)
	}

	return nil
}

func amount(v int64) string {
	return strconv.FormatInt(v, 10)
}

func date(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("2006-01-02")
}

// GenerateSummary lists the written files, one per line.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("* %s | %d rows | %s\n", item.Name, item.Rows, filepath.Base(item.FilePath)))
	}

	return sb.String()
}
