package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice number prefixes.
const (
	PrefixPurchase   = "PUR"
	PrefixSales      = "SAL"
	PrefixReturn     = "RET"
	PrefixAdjustment = "ADJ"
)

// PurchaseInvoice is the header of a supplier purchase. Totals are maintained
// independently per currency and always equal the sum of the line totals.
type PurchaseInvoice struct {
	ID             string
	InvoiceNumber  string // unique, PUR-...
	SupplierID     string
	Date           time.Time
	TotalAmountIQD decimal.Decimal
	TotalAmountUSD decimal.Decimal
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}

// PurchaseInvoiceItem is one line of a purchase invoice. Unit prices are the
// caller-entered historical prices, not the product's catalog price.
type PurchaseInvoiceItem struct {
	ID            string
	InvoiceID     string
	ProductID     string
	Quantity      int64 // > 0
	UnitPriceIQD  decimal.Decimal
	UnitPriceUSD  decimal.Decimal
	TotalPriceIQD decimal.Decimal
	TotalPriceUSD decimal.Decimal
}
