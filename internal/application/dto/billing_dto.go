package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest one line of an invoice create request. Unit prices are
// entered by the caller (historical pricing); when only one currency side is
// provided the other is derived from the operation's rate snapshot.
type InvoiceItemRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     int64           `json:"quantity"`
	UnitPriceIQD decimal.Decimal `json:"unit_price_iqd"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd"`
}

// CreatePurchaseInvoiceRequest payload for POST /api/purchases.
type CreatePurchaseInvoiceRequest struct {
	SupplierID string               `json:"supplier_id"`
	Items      []InvoiceItemRequest `json:"items"`
	Notes      string               `json:"notes"`
}

// CreateSalesInvoiceRequest payload for POST /api/sales. Discount is entered
// in IQD.
type CreateSalesInvoiceRequest struct {
	CustomerID    string               `json:"customer_id"`
	Items         []InvoiceItemRequest `json:"items"`
	DiscountIQD   decimal.Decimal      `json:"discount_amount"`
	PaymentMethod string               `json:"payment_method"`
	Notes         string               `json:"notes"`
}

// ReturnItemRequest one line of a sales return.
type ReturnItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateSalesReturnRequest payload for POST /api/sales/return/:id.
type CreateSalesReturnRequest struct {
	Items []ReturnItemRequest `json:"items"`
	Notes string              `json:"notes"`
}

// InvoiceItemResponse one line of an invoice response.
type InvoiceItemResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	UnitPriceIQD  decimal.Decimal `json:"unit_price_iqd"`
	UnitPriceUSD  decimal.Decimal `json:"unit_price_usd"`
	TotalPriceIQD decimal.Decimal `json:"total_price_iqd"`
	TotalPriceUSD decimal.Decimal `json:"total_price_usd"`
}

// PurchaseInvoiceResponse purchase invoice with lines.
type PurchaseInvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	SupplierID     string                `json:"supplier_id"`
	SupplierName   string                `json:"supplier_name,omitempty"`
	Date           time.Time             `json:"date"`
	TotalAmountIQD decimal.Decimal       `json:"total_amount_iqd"`
	TotalAmountUSD decimal.Decimal       `json:"total_amount_usd"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
}

// SalesInvoiceResponse sales invoice with lines.
type SalesInvoiceResponse struct {
	ID             string                `json:"id"`
	InvoiceNumber  string                `json:"invoice_number"`
	CustomerID     string                `json:"customer_id"`
	CustomerName   string                `json:"customer_name,omitempty"`
	Date           time.Time             `json:"date"`
	SubtotalIQD    decimal.Decimal       `json:"subtotal_iqd"`
	SubtotalUSD    decimal.Decimal       `json:"subtotal_usd"`
	DiscountIQD    decimal.Decimal       `json:"discount_amount"`
	TotalAmountIQD decimal.Decimal       `json:"total_amount_iqd"`
	TotalAmountUSD decimal.Decimal       `json:"total_amount_usd"`
	PaymentMethod  string                `json:"payment_method"`
	Notes          string                `json:"notes,omitempty"`
	Items          []InvoiceItemResponse `json:"items"`
}

// SalesReturnResponse receipt for a processed sales return.
type SalesReturnResponse struct {
	ReturnNumber   string          `json:"return_number"`
	InvoiceNumber  string          `json:"invoice_number"`
	TotalAmountIQD decimal.Decimal `json:"total_return_amount_iqd"`
	TotalAmountUSD decimal.Decimal `json:"total_return_amount_usd"`
}
