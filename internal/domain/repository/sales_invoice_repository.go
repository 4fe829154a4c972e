package repository

import "github.com/hasanq/muhasaba/internal/domain/entity"

// SalesInvoiceRepository is the persistence port for sales invoices and their
// lines.
type SalesInvoiceRepository interface {
	Create(invoice *entity.SalesInvoice) error
	CreateItem(item *entity.SalesInvoiceItem) error
	GetByID(id string) (*entity.SalesInvoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.SalesInvoiceItem, error)
	List(limit, offset int) ([]*entity.SalesInvoice, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.SalesInvoice, error)
	DeleteItems(invoiceID string) error
	Delete(id string) error
}
