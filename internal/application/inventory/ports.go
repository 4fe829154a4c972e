package inventory

import (
	"context"

	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// TxRunner executes a function inside a DB transaction, passing repositories
// bound to that transaction. Guarantees atomicity for the stock ledger: the
// movement insert and the stock update commit or roll back as one unit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
