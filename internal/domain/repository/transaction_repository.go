package repository

import (
	"time"

	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// TransactionRepository is the persistence port for the financial transaction
// log. Append-only: no update operation exists. DeleteByReference is the one
// sanctioned deletion, used when the originating invoice is deleted so the
// ledger keeps mirroring live invoices.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Transaction, error)
	DeleteByReference(referenceType, referenceID string) error
}
