package export

import (
	"fmt"
	"io"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/MrJamesThe3rd/mechanico/internal/entity"
)

var (
	colorPrimary = &props.Color{Red: 30, Green: 64, Blue: 175}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// WriteInvoicePDF renders one invoice on an A4 page. The core PDF fonts only
// cover Latin-1, so other scripts do not render legibly.
func WriteInvoicePDF(w io.Writer, inv entity.Invoice, customer entity.User) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(invoiceHeaderRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(inv.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRows(inv)...)

	if inv.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(inv.Notes, props.Text{Size: 8, Color: colorGray, Top: 3}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating invoice %s: %w", inv.InvoiceNumber, err)
	}

	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("writing invoice %s: %w", inv.InvoiceNumber, err)
	}

	return nil
}

func invoiceHeaderRow(inv entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Status: "+string(inv.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Date: "+date(inv.Date), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Due: "+date(inv.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func customerRow(u entity.User) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(u.FullName, props.Text{Size: 9, Top: 6}),
			text.New(fmt.Sprintf("%s   |   %s", u.Email, u.Phone), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
	)
}

func itemsHeaderRow() core.Row {
	header := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}

	return row.New(7).Add(
		header("Description", 6, align.Left),
		header("Qty", 1, align.Center),
		header("Unit Price", 2, align.Right),
		header("Total", 3, align.Right),
	)
}

func itemRows(items []entity.InvoiceItem) []core.Row {
	rows := make([]core.Row, 0, len(items))

	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(amount(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(amount(it.Total), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}

	return rows
}

func totalRows(inv entity.Invoice) []core.Row {
	total := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}

		return row.New(6).Add(
			col.New(9).Add(text.New(label, props.Text{Size: 9, Align: align.Right, Style: style})),
			col.New(3).Add(text.New(value, props.Text{Size: 9, Align: align.Right, Style: style})),
		)
	}

	return []core.Row{
		total("Subtotal", amount(inv.Subtotal), false),
		total("Tax", amount(inv.Tax), false),
		total("Discount", amount(-inv.Discount), false),
		total("Total", amount(inv.Total), true),
	}
}
