package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TransactionRevenue = "revenue"
	TransactionExpense = "expense"
)

// Reference types linking a transaction back to its originating document.
const (
	ReferencePurchaseInvoice = "purchase_invoice"
	ReferenceSalesInvoice    = "sales_invoice"
	ReferenceSalesReturn     = "sales_return"
)

// Transaction is an append-only ledger entry, exactly one per invoice
// lifecycle event (create, delete, return). It is never updated; the only
// permitted deletion is the cascade that accompanies deleting its invoice.
type Transaction struct {
	ID            string
	Type          string // revenue, expense
	AmountIQD     decimal.Decimal
	AmountUSD     decimal.Decimal
	Date          time.Time
	Description   string
	ReferenceType string // purchase_invoice, sales_invoice, sales_return
	ReferenceID   string // originating invoice ID
	CreatedBy     string
	CreatedAt     time.Time
}
