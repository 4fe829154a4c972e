package repository

import "github.com/hasanq/muhasaba/internal/domain/entity"

// CustomerRepository is the persistence port for Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
	Delete(id string) error
	// HasInvoices reports whether any sales invoice references the customer
	// (delete guard).
	HasInvoices(id string) (bool, error)
}
