package repository

import "github.com/hasanq/muhasaba/internal/domain/entity"

// PurchaseInvoiceRepository is the persistence port for purchase invoices and
// their lines.
type PurchaseInvoiceRepository interface {
	Create(invoice *entity.PurchaseInvoice) error
	CreateItem(item *entity.PurchaseInvoiceItem) error
	UpdateTotals(invoice *entity.PurchaseInvoice) error
	GetByID(id string) (*entity.PurchaseInvoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.PurchaseInvoiceItem, error)
	List(limit, offset int) ([]*entity.PurchaseInvoice, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseInvoice, error)
	DeleteItems(invoiceID string) error
	Delete(id string) error
}
