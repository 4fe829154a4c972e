package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

var _ repository.SalesInvoiceRepository = (*SalesInvoiceRepo)(nil)

const salesColumns = `id, invoice_number, customer_id, date, subtotal_iqd, subtotal_usd, discount_iqd, discount_usd, total_amount_iqd, total_amount_usd, payment_method, notes, created_by, created_at`

// SalesInvoiceRepo implements SalesInvoiceRepository over PostgreSQL (usable
// with pool or tx).
type SalesInvoiceRepo struct {
	q Querier
}

// NewSalesInvoiceRepository builds the persistence adapter. Pass pool or tx.
func NewSalesInvoiceRepository(q Querier) *SalesInvoiceRepo {
	return &SalesInvoiceRepo{q: q}
}

func (r *SalesInvoiceRepo) Create(invoice *entity.SalesInvoice) error {
	query := `
		INSERT INTO sales_invoices (` + salesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.CustomerID, invoice.Date,
		invoice.SubtotalIQD, invoice.SubtotalUSD, invoice.DiscountIQD, invoice.DiscountUSD,
		invoice.TotalAmountIQD, invoice.TotalAmountUSD, nullIfEmpty(invoice.PaymentMethod),
		nullIfEmpty(invoice.Notes), nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("insert sales invoice: %w", err)
	}
	return nil
}

func (r *SalesInvoiceRepo) CreateItem(item *entity.SalesInvoiceItem) error {
	query := `
		INSERT INTO sales_invoice_items (id, invoice_id, product_id, quantity, unit_price_iqd, unit_price_usd, total_price_iqd, total_price_usd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity,
		item.UnitPriceIQD, item.UnitPriceUSD, item.TotalPriceIQD, item.TotalPriceUSD,
	)
	if err != nil {
		return fmt.Errorf("insert sales item: %w", err)
	}
	return nil
}

func (r *SalesInvoiceRepo) GetByID(id string) (*entity.SalesInvoice, error) {
	query := `SELECT ` + salesColumns + ` FROM sales_invoices WHERE id = $1`
	inv, err := scanSalesInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales invoice: %w", err)
	}
	return inv, nil
}

func (r *SalesInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.SalesInvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price_iqd, unit_price_usd, total_price_iqd, total_price_usd
		FROM sales_invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list sales items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesInvoiceItem
	for rows.Next() {
		var it entity.SalesInvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity,
			&it.UnitPriceIQD, &it.UnitPriceUSD, &it.TotalPriceIQD, &it.TotalPriceUSD); err != nil {
			return nil, fmt.Errorf("scan sales item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *SalesInvoiceRepo) List(limit, offset int) ([]*entity.SalesInvoice, error) {
	query := `SELECT ` + salesColumns + ` FROM sales_invoices ORDER BY date DESC LIMIT $1 OFFSET $2`
	return r.listQuery(query, limit, offset)
}

func (r *SalesInvoiceRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.SalesInvoice, error) {
	query := `SELECT ` + salesColumns + ` FROM sales_invoices WHERE customer_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.listQuery(query, customerID, limit, offset)
}

func (r *SalesInvoiceRepo) listQuery(query string, args ...any) ([]*entity.SalesInvoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesInvoice
	for rows.Next() {
		inv, err := scanSalesInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *SalesInvoiceRepo) DeleteItems(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales_invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete sales items: %w", err)
	}
	return nil
}

func (r *SalesInvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM sales_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sales invoice: %w", err)
	}
	return nil
}

func scanSalesInvoice(row pgx.Row) (*entity.SalesInvoice, error) {
	var inv entity.SalesInvoice
	var paymentMethod, notes, createdBy *string
	if err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.Date,
		&inv.SubtotalIQD, &inv.SubtotalUSD, &inv.DiscountIQD, &inv.DiscountUSD,
		&inv.TotalAmountIQD, &inv.TotalAmountUSD, &paymentMethod, &notes, &createdBy,
		&inv.CreatedAt); err != nil {
		return nil, err
	}
	if paymentMethod != nil {
		inv.PaymentMethod = *paymentMethod
	}
	if notes != nil {
		inv.Notes = *notes
	}
	if createdBy != nil {
		inv.CreatedBy = *createdBy
	}
	return &inv, nil
}
