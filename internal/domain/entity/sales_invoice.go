package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesInvoice is the header of a customer sale. Subtotals and totals are kept
// per currency; the discount is entered in IQD and converted once with the
// operation's rate snapshot. Invariant per currency:
//
//	total = subtotal - discount
type SalesInvoice struct {
	ID             string
	InvoiceNumber  string // unique, SAL-...
	CustomerID     string
	Date           time.Time
	SubtotalIQD    decimal.Decimal
	SubtotalUSD    decimal.Decimal
	DiscountIQD    decimal.Decimal
	DiscountUSD    decimal.Decimal
	TotalAmountIQD decimal.Decimal
	TotalAmountUSD decimal.Decimal
	PaymentMethod  string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// SalesInvoiceItem is one line of a sales invoice.
type SalesInvoiceItem struct {
	ID            string
	InvoiceID     string
	ProductID     string
	Quantity      int64 // > 0
	UnitPriceIQD  decimal.Decimal
	UnitPriceUSD  decimal.Decimal
	TotalPriceIQD decimal.Decimal
	TotalPriceUSD decimal.Decimal
}
