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

var _ repository.PurchaseInvoiceRepository = (*PurchaseInvoiceRepo)(nil)

const purchaseColumns = `id, invoice_number, supplier_id, date, total_amount_iqd, total_amount_usd, notes, created_by, created_at`

// PurchaseInvoiceRepo implements PurchaseInvoiceRepository over PostgreSQL
// (usable with pool or tx).
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository builds the persistence adapter. Pass pool or tx.
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

func (r *PurchaseInvoiceRepo) Create(invoice *entity.PurchaseInvoice) error {
	query := `
		INSERT INTO purchase_invoices (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.InvoiceNumber, invoice.SupplierID, invoice.Date,
		invoice.TotalAmountIQD, invoice.TotalAmountUSD, nullIfEmpty(invoice.Notes),
		nullIfEmpty(invoice.CreatedBy), invoice.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("insert purchase invoice: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) CreateItem(item *entity.PurchaseInvoiceItem) error {
	query := `
		INSERT INTO purchase_invoice_items (id, invoice_id, product_id, quantity, unit_price_iqd, unit_price_usd, total_price_iqd, total_price_usd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity,
		item.UnitPriceIQD, item.UnitPriceUSD, item.TotalPriceIQD, item.TotalPriceUSD,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) UpdateTotals(invoice *entity.PurchaseInvoice) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_invoices SET total_amount_iqd = $2, total_amount_usd = $3 WHERE id = $1`,
		invoice.ID, invoice.TotalAmountIQD, invoice.TotalAmountUSD,
	)
	if err != nil {
		return fmt.Errorf("update purchase totals: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) GetByID(id string) (*entity.PurchaseInvoice, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_invoices WHERE id = $1`
	var inv entity.PurchaseInvoice
	var notes, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.SupplierID, &inv.Date,
		&inv.TotalAmountIQD, &inv.TotalAmountUSD, &notes, &createdBy, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", err)
	}
	if notes != nil {
		inv.Notes = *notes
	}
	if createdBy != nil {
		inv.CreatedBy = *createdBy
	}
	return &inv, nil
}

func (r *PurchaseInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.PurchaseInvoiceItem, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price_iqd, unit_price_usd, total_price_iqd, total_price_usd
		FROM purchase_invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoiceItem
	for rows.Next() {
		var it entity.PurchaseInvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity,
			&it.UnitPriceIQD, &it.UnitPriceUSD, &it.TotalPriceIQD, &it.TotalPriceUSD); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *PurchaseInvoiceRepo) List(limit, offset int) ([]*entity.PurchaseInvoice, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_invoices ORDER BY date DESC LIMIT $1 OFFSET $2`
	return r.listQuery(query, limit, offset)
}

func (r *PurchaseInvoiceRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseInvoice, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_invoices WHERE supplier_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.listQuery(query, supplierID, limit, offset)
}

func (r *PurchaseInvoiceRepo) listQuery(query string, args ...any) ([]*entity.PurchaseInvoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoice
	for rows.Next() {
		var inv entity.PurchaseInvoice
		var notes, createdBy *string
		if err := rows.Scan(&inv.ID, &inv.InvoiceNumber, &inv.SupplierID, &inv.Date,
			&inv.TotalAmountIQD, &inv.TotalAmountUSD, &notes, &createdBy, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		if notes != nil {
			inv.Notes = *notes
		}
		if createdBy != nil {
			inv.CreatedBy = *createdBy
		}
		list = append(list, &inv)
	}
	return list, rows.Err()
}

func (r *PurchaseInvoiceRepo) DeleteItems(invoiceID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM purchase_invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase invoice: %w", err)
	}
	return nil
}
