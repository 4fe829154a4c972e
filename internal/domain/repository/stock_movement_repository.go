package repository

import (
	"time"

	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// StockMovementRepository is the persistence port for the append-only
// movement log. Delete exists only for the compensating invoice-reversal
// procedure and must never be called outside it.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(referenceID string) ([]*entity.StockMovement, error)
	List(from, to *time.Time, productID, kind string, limit, offset int) ([]*entity.StockMovement, error)
	// LatestByProduct returns the most recent movement for a product, or nil
	// when the product has none. Drives the reversal-ordering guard.
	LatestByProduct(productID string) (*entity.StockMovement, error)
	DeleteByReferenceAndProduct(referenceID, productID string) error
}
