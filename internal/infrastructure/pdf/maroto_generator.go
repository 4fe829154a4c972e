// Package pdf renders printable A4 invoice documents with Maroto v2.
//
// Page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: shop name            │  Invoice number + date       │
//	│  ───────────────────────────────────────────────────────── │
//	│  PARTY: customer / supplier name + contact                  │
//	│  ───────────────────────────────────────────────────────── │
//	│  TABLE: Qty | Product | Unit IQD | Unit USD | Total IQD     │
//	│  ───────────────────────────────────────────────────────── │
//	│  TOTALS: subtotal / discount / TOTAL in IQD and USD         │
//	│  ───────────────────────────────────────────────────────── │
//	│  FOOTER: QR with invoice number + rate note                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hasanq/muhasaba/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// money formats amounts with thousands separators (1,250,000).
var money = message.NewPrinter(language.English)

// Generator renders invoices to PDF bytes.
type Generator struct {
	shopName string
}

// NewGenerator builds the generator. shopName appears in the document header.
func NewGenerator(shopName string) *Generator {
	return &Generator{shopName: shopName}
}

// SalesInvoicePDF renders a sales invoice with its dual-currency totals.
func (g *Generator) SalesInvoicePDF(inv *dto.SalesInvoiceResponse) ([]byte, error) {
	m := newDocument(g.shopName)

	m.AddRows(headerRow(g.shopName, "SALES INVOICE", inv.InvoiceNumber, inv.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("CUSTOMER", inv.CustomerName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(salesTotalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(inv.InvoiceNumber))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// PurchaseInvoicePDF renders a purchase invoice.
func (g *Generator) PurchaseInvoicePDF(inv *dto.PurchaseInvoiceResponse) ([]byte, error) {
	m := newDocument(g.shopName)

	m.AddRows(headerRow(g.shopName, "PURCHASE INVOICE", inv.InvoiceNumber, inv.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partyRow("SUPPLIER", inv.SupplierName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow("TOTAL:", inv.TotalAmountIQD, inv.TotalAmountUSD))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(inv.InvoiceNumber))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func newDocument(author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

func headerRow(shopName, title, number, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(shopName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func partyRow(label, name string) core.Row {
	if name == "" {
		name = "-"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Product", 4, align.Left),
		h("Unit IQD", 2, align.Right),
		h("Unit USD", 2, align.Right),
		h("Total IQD", 3, align.Right),
	)
}

func itemRows(items []dto.InvoiceItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.ProductID,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatIQD(it.UnitPriceIQD),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.UnitPriceUSD.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatIQD(it.TotalPriceIQD),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func salesTotalsRow(inv *dto.SalesInvoiceResponse) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 1),
			label("Discount:", 7),
			grand("TOTAL:", 14),
		),
		col.New(4).Add(
			value(formatIQD(inv.SubtotalIQD)+"  /  $"+inv.SubtotalUSD.StringFixed(2), 1),
			value(formatIQD(inv.DiscountIQD), 7),
			grand(formatIQD(inv.TotalAmountIQD)+"  /  $"+inv.TotalAmountUSD.StringFixed(2), 14),
		),
	)
}

func totalsRow(label string, totalIQD, totalUSD decimal.Decimal) core.Row {
	return row.New(14).Add(
		col.New(4),
		col.New(4).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 3,
		})),
		col.New(4).Add(text.New(
			formatIQD(totalIQD)+"  /  $"+totalUSD.StringFixed(2),
			props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 3,
			},
		)),
	)
}

func footerRow(invoiceNumber string) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(invoiceNumber, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Scan the QR code to look up this invoice.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Thank you for your business.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// formatIQD renders an IQD amount with thousands separators and the currency
// suffix. Dinar amounts carry no fractional part.
func formatIQD(d decimal.Decimal) string {
	return money.Sprintf("%d IQD", d.Round(0).IntPart())
}
