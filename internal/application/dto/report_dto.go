package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResponse aggregated sales over a period.
type SalesSummaryResponse struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalIQD      decimal.Decimal `json:"total_iqd"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
	TotalInvoices int64           `json:"total_invoices"`
	AverageIQD    decimal.Decimal `json:"average_invoice_iqd"`
	TotalDiscount decimal.Decimal `json:"total_discount_iqd"`
}

// PurchasesSummaryResponse aggregated purchases over a period.
type PurchasesSummaryResponse struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalIQD      decimal.Decimal `json:"total_iqd"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
	TotalInvoices int64           `json:"total_invoices"`
	AverageIQD    decimal.Decimal `json:"average_invoice_iqd"`
}

// ProfitLossResponse revenue minus expenses from the transaction log.
type ProfitLossResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	RevenueIQD   decimal.Decimal `json:"revenue_iqd"`
	RevenueUSD   decimal.Decimal `json:"revenue_usd"`
	ExpensesIQD  decimal.Decimal `json:"expenses_iqd"`
	ExpensesUSD  decimal.Decimal `json:"expenses_usd"`
	NetProfitIQD decimal.Decimal `json:"net_profit_iqd"`
	NetProfitUSD decimal.Decimal `json:"net_profit_usd"`
}

// ProductSalesResponse one row of the best-selling report.
type ProductSalesResponse struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalIQD      decimal.Decimal `json:"total_iqd"`
}

// PartyTotalResponse one row of the top-customers / top-suppliers reports.
type PartyTotalResponse struct {
	PartyID      string          `json:"party_id"`
	PartyName    string          `json:"party_name"`
	InvoiceCount int64           `json:"invoice_count"`
	TotalIQD     decimal.Decimal `json:"total_iqd"`
	TotalUSD     decimal.Decimal `json:"total_usd"`
}

// StockStatusResponse one row of the inventory status report.
type StockStatusResponse struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	CurrentStock int64  `json:"current_stock"`
}

// DailyAmountResponse one point of a per-day trend series.
type DailyAmountResponse struct {
	Day   string          `json:"day"`
	Total decimal.Decimal `json:"total_iqd"`
}

// DashboardResponse the landing-page snapshot.
type DashboardResponse struct {
	TodaySalesIQD      decimal.Decimal        `json:"today_sales_iqd"`
	TodaySalesUSD      decimal.Decimal        `json:"today_sales_usd"`
	TodayInvoices      int64                  `json:"today_invoices"`
	MonthRevenueIQD    decimal.Decimal        `json:"month_revenue_iqd"`
	MonthExpensesIQD   decimal.Decimal        `json:"month_expenses_iqd"`
	MonthNetProfitIQD  decimal.Decimal        `json:"month_net_profit_iqd"`
	TotalProducts      int64                  `json:"total_products"`
	LowStockCount      int64                  `json:"low_stock_count"`
	LowStockProducts   []StockStatusResponse  `json:"low_stock_products"`
	SalesTrend         []DailyAmountResponse  `json:"sales_trend"`
	BestSelling        []ProductSalesResponse `json:"best_selling"`
	CurrentUSDToIQD    decimal.Decimal        `json:"current_usd_to_iqd"`
	RateEffectiveDate  *time.Time             `json:"rate_effective_date,omitempty"`
}
