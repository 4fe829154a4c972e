package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo runs the read-only aggregation queries behind the reporting
// endpoints. Always bound to the pool, never to a transaction.
type ReportRepo struct {
	q Querier
}

// NewReportRepository builds the reporting adapter.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) SalesSummary(from, to time.Time) (*repository.SalesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount_iqd), 0),
		       COALESCE(SUM(total_amount_usd), 0),
		       COUNT(*),
		       COALESCE(AVG(total_amount_iqd), 0),
		       COALESCE(SUM(discount_iqd), 0)
		FROM sales_invoices WHERE date >= $1 AND date <= $2`
	var s repository.SalesSummary
	err := r.q.QueryRow(context.Background(), query, from, to).Scan(
		&s.TotalIQD, &s.TotalUSD, &s.TotalInvoices, &s.AverageIQD, &s.TotalDiscount,
	)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &s, nil
}

func (r *ReportRepo) PurchasesSummary(from, to time.Time) (*repository.PurchasesSummary, error) {
	query := `
		SELECT COALESCE(SUM(total_amount_iqd), 0),
		       COALESCE(SUM(total_amount_usd), 0),
		       COUNT(*),
		       COALESCE(AVG(total_amount_iqd), 0)
		FROM purchase_invoices WHERE date >= $1 AND date <= $2`
	var s repository.PurchasesSummary
	err := r.q.QueryRow(context.Background(), query, from, to).Scan(
		&s.TotalIQD, &s.TotalUSD, &s.TotalInvoices, &s.AverageIQD,
	)
	if err != nil {
		return nil, fmt.Errorf("purchases summary: %w", err)
	}
	return &s, nil
}

func (r *ReportRepo) ProfitLoss(from, to time.Time) (*repository.ProfitLoss, error) {
	query := `
		SELECT COALESCE(SUM(amount_iqd) FILTER (WHERE type = $3), 0),
		       COALESCE(SUM(amount_usd) FILTER (WHERE type = $3), 0),
		       COALESCE(SUM(amount_iqd) FILTER (WHERE type = $4), 0),
		       COALESCE(SUM(amount_usd) FILTER (WHERE type = $4), 0)
		FROM transactions WHERE date >= $1 AND date <= $2`
	var pl repository.ProfitLoss
	err := r.q.QueryRow(context.Background(), query, from, to,
		entity.TransactionRevenue, entity.TransactionExpense,
	).Scan(&pl.RevenueIQD, &pl.RevenueUSD, &pl.ExpensesIQD, &pl.ExpensesUSD)
	if err != nil {
		return nil, fmt.Errorf("profit loss: %w", err)
	}
	return &pl, nil
}

func (r *ReportRepo) BestSelling(from, to time.Time, limit int) ([]*repository.ProductSales, error) {
	query := `
		SELECT i.product_id, p.name,
		       COALESCE(SUM(i.quantity), 0),
		       COALESCE(SUM(i.total_price_iqd), 0)
		FROM sales_invoice_items i
		JOIN sales_invoices s ON s.id = i.invoice_id
		JOIN products p ON p.id = i.product_id
		WHERE s.date >= $1 AND s.date <= $2
		GROUP BY i.product_id, p.name
		ORDER BY SUM(i.quantity) DESC
		LIMIT $3`
	rows, err := r.q.Query(context.Background(), query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("best selling: %w", err)
	}
	defer rows.Close()
	var list []*repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.ProductName, &ps.TotalQuantity, &ps.TotalIQD); err != nil {
			return nil, fmt.Errorf("scan best selling: %w", err)
		}
		list = append(list, &ps)
	}
	return list, rows.Err()
}

func (r *ReportRepo) TopCustomers(from, to time.Time, limit int) ([]*repository.PartyTotal, error) {
	query := `
		SELECT s.customer_id, c.name, COUNT(*),
		       COALESCE(SUM(s.total_amount_iqd), 0),
		       COALESCE(SUM(s.total_amount_usd), 0)
		FROM sales_invoices s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.date >= $1 AND s.date <= $2
		GROUP BY s.customer_id, c.name
		ORDER BY SUM(s.total_amount_iqd) DESC
		LIMIT $3`
	return r.partyQuery(query, from, to, limit)
}

func (r *ReportRepo) TopSuppliers(from, to time.Time, limit int) ([]*repository.PartyTotal, error) {
	query := `
		SELECT p.supplier_id, s.name, COUNT(*),
		       COALESCE(SUM(p.total_amount_iqd), 0),
		       COALESCE(SUM(p.total_amount_usd), 0)
		FROM purchase_invoices p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.date >= $1 AND p.date <= $2
		GROUP BY p.supplier_id, s.name
		ORDER BY SUM(p.total_amount_iqd) DESC
		LIMIT $3`
	return r.partyQuery(query, from, to, limit)
}

func (r *ReportRepo) partyQuery(query string, args ...any) ([]*repository.PartyTotal, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("party totals: %w", err)
	}
	defer rows.Close()
	var list []*repository.PartyTotal
	for rows.Next() {
		var pt repository.PartyTotal
		if err := rows.Scan(&pt.PartyID, &pt.PartyName, &pt.InvoiceCount, &pt.TotalIQD, &pt.TotalUSD); err != nil {
			return nil, fmt.Errorf("scan party total: %w", err)
		}
		list = append(list, &pt)
	}
	return list, rows.Err()
}

func (r *ReportRepo) SupplierTotals(supplierID string) (*repository.PartyTotal, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount_iqd), 0),
		       COALESCE(SUM(total_amount_usd), 0)
		FROM purchase_invoices WHERE supplier_id = $1`
	pt := &repository.PartyTotal{PartyID: supplierID}
	err := r.q.QueryRow(context.Background(), query, supplierID).Scan(
		&pt.InvoiceCount, &pt.TotalIQD, &pt.TotalUSD,
	)
	if err != nil {
		return nil, fmt.Errorf("supplier totals: %w", err)
	}
	return pt, nil
}

func (r *ReportRepo) CustomerTotals(customerID string) (*repository.PartyTotal, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount_iqd), 0),
		       COALESCE(SUM(total_amount_usd), 0)
		FROM sales_invoices WHERE customer_id = $1`
	pt := &repository.PartyTotal{PartyID: customerID}
	err := r.q.QueryRow(context.Background(), query, customerID).Scan(
		&pt.InvoiceCount, &pt.TotalIQD, &pt.TotalUSD,
	)
	if err != nil {
		return nil, fmt.Errorf("customer totals: %w", err)
	}
	return pt, nil
}

func (r *ReportRepo) SalesTrend(from, to time.Time) ([]*repository.DailyAmount, error) {
	query := `
		SELECT date_trunc('day', date) AS day,
		       COALESCE(SUM(total_amount_iqd), 0)
		FROM sales_invoices WHERE date >= $1 AND date <= $2
		GROUP BY day ORDER BY day`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales trend: %w", err)
	}
	defer rows.Close()
	var list []*repository.DailyAmount
	for rows.Next() {
		var da repository.DailyAmount
		if err := rows.Scan(&da.Day, &da.Total); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		list = append(list, &da)
	}
	return list, rows.Err()
}

func (r *ReportRepo) InventoryStatus() ([]*repository.StockStatus, error) {
	query := `SELECT id, name, sku, current_stock FROM products ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("inventory status: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockStatus
	for rows.Next() {
		var ss repository.StockStatus
		if err := rows.Scan(&ss.ProductID, &ss.Name, &ss.SKU, &ss.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan stock status: %w", err)
		}
		list = append(list, &ss)
	}
	return list, rows.Err()
}
