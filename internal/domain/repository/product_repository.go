package repository

import (
	"time"

	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// ProductRepository is the persistence port for Product.
//
// GetForUpdate must lock the product row for the remainder of the enclosing
// transaction (SELECT FOR UPDATE); the stock ledger relies on that lock to
// serialize its check-then-update sequence.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	ListLowStock(threshold int64) ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateImageURL(id, imageURL string) error
	Delete(id string) error
	// IsReferenced reports whether any movement or invoice line references the
	// product (delete guard).
	IsReferenced(id string) (bool, error)

	GetForUpdate(id string) (*entity.Product, error)
	UpdateStock(id string, newStock int64, at time.Time) error
}
