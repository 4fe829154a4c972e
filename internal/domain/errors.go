package domain

import (
	"errors"
	"fmt"
)

// Domain errors (no external dependencies).
var (
	ErrNotFound               = errors.New("resource not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameAlreadyExists  = errors.New("username already registered")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("access denied")
	ErrNoExchangeRate         = errors.New("no exchange rate configured")
	ErrDuplicateInvoiceNumber = errors.New("invoice number already exists")
)

// InsufficientStockError is returned when an outbound movement asks for more
// units than the product currently holds. Carries enough context for the
// caller to report available vs requested quantities.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// StaleReversalError blocks an invoice reversal when some product already has
// a movement newer than the one being undone. Undoing it anyway would
// double-apply a stock change that later operations built on.
type StaleReversalError struct {
	ProductID string
	Reference string
}

func (e *StaleReversalError) Error() string {
	return fmt.Sprintf("cannot reverse %s: product %s has newer movements", e.Reference, e.ProductID)
}

// ExcessReturnError is returned when a sales return asks for more units of a
// line than the original invoice sold.
type ExcessReturnError struct {
	ProductID string
	Original  int64
	Requested int64
}

func (e *ExcessReturnError) Error() string {
	return fmt.Sprintf("return quantity %d exceeds original sale quantity %d for product %s",
		e.Requested, e.Original, e.ProductID)
}
