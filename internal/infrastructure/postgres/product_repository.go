package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price_iqd, price_usd, image_url, current_stock, last_stock_update, created_at, updated_at`

// ProductRepo implements ProductRepository over PostgreSQL (usable with pool
// or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the persistence adapter. Pass pool or tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description,
		product.PriceIQD, product.PriceUSD, nullIfEmpty(product.ImageURL),
		product.CurrentStock, product.LastStockUpdate, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetForUpdate loads the product row locked for the remainder of the
// enclosing transaction. Must only be called with a tx-bound Querier.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	var imageURL *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceIQD, &p.PriceUSD,
		&imageURL, &p.CurrentStock, &p.LastStockUpdate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if imageURL != nil {
		p.ImageURL = *imageURL
	}
	return &p, nil
}

func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

func (r *ProductRepo) ListLowStock(threshold int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE current_stock <= $1 ORDER BY current_stock ASC`
	return r.list(query, threshold)
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var imageURL *string
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceIQD, &p.PriceUSD,
			&imageURL, &p.CurrentStock, &p.LastStockUpdate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if imageURL != nil {
			p.ImageURL = *imageURL
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update writes catalog fields only. Stock columns are owned by UpdateStock.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price_iqd = $5, price_usd = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description,
		product.PriceIQD, product.PriceUSD, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *ProductRepo) UpdateImageURL(id, imageURL string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET image_url = $2, updated_at = now() WHERE id = $1`,
		id, nullIfEmpty(imageURL),
	)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	return nil
}

// UpdateStock sets the on-hand quantity and its timestamp. Called only by the
// stock ledger inside a transaction holding the row lock.
func (r *ProductRepo) UpdateStock(id string, newStock int64, at time.Time) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_stock = $2, last_stock_update = $3, updated_at = $3 WHERE id = $1`,
		id, newStock, at,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

func (r *ProductRepo) IsReferenced(id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM purchase_invoice_items WHERE product_id = $1)
		    OR EXISTS (SELECT 1 FROM sales_invoice_items WHERE product_id = $1)`
	var referenced bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check product references: %w", err)
	}
	return referenced, nil
}

func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
