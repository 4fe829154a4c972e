package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummary aggregates sales invoices over a period.
type SalesSummary struct {
	TotalIQD      decimal.Decimal
	TotalUSD      decimal.Decimal
	TotalInvoices int64
	AverageIQD    decimal.Decimal
	TotalDiscount decimal.Decimal
}

// PurchasesSummary aggregates purchase invoices over a period.
type PurchasesSummary struct {
	TotalIQD      decimal.Decimal
	TotalUSD      decimal.Decimal
	TotalInvoices int64
	AverageIQD    decimal.Decimal
}

// ProfitLoss aggregates the transaction log over a period.
type ProfitLoss struct {
	RevenueIQD  decimal.Decimal
	RevenueUSD  decimal.Decimal
	ExpensesIQD decimal.Decimal
	ExpensesUSD decimal.Decimal
}

// ProductSales is one row of the best-selling report.
type ProductSales struct {
	ProductID     string
	ProductName   string
	TotalQuantity int64
	TotalIQD      decimal.Decimal
}

// PartyTotal is one row of the top-customers / top-suppliers reports.
type PartyTotal struct {
	PartyID       string
	PartyName     string
	InvoiceCount  int64
	TotalIQD      decimal.Decimal
	TotalUSD      decimal.Decimal
}

// StockStatus is one row of the inventory status report.
type StockStatus struct {
	ProductID    string
	Name         string
	SKU          string
	CurrentStock int64
}

// DailyAmount is one point of a per-day trend series.
type DailyAmount struct {
	Day   time.Time
	Total decimal.Decimal
}

// ReportRepository runs the read-only aggregation queries behind the
// reporting endpoints. It never writes and never participates in ledger
// transactions.
type ReportRepository interface {
	SalesSummary(from, to time.Time) (*SalesSummary, error)
	PurchasesSummary(from, to time.Time) (*PurchasesSummary, error)
	ProfitLoss(from, to time.Time) (*ProfitLoss, error)
	BestSelling(from, to time.Time, limit int) ([]*ProductSales, error)
	TopCustomers(from, to time.Time, limit int) ([]*PartyTotal, error)
	TopSuppliers(from, to time.Time, limit int) ([]*PartyTotal, error)
	SupplierTotals(supplierID string) (*PartyTotal, error)
	CustomerTotals(customerID string) (*PartyTotal, error)
	SalesTrend(from, to time.Time) ([]*DailyAmount, error)
	InventoryStatus() ([]*StockStatus, error)
}
