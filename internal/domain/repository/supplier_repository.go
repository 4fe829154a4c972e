package repository

import "github.com/hasanq/muhasaba/internal/domain/entity"

// SupplierRepository is the persistence port for Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
	// HasInvoices reports whether any purchase invoice references the supplier
	// (delete guard).
	HasInvoices(id string) (bool, error)
}
