package billing

import (
	"context"
	"time"

	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// BillingTxRunner executes a function inside a DB transaction that spans the
// inventory and billing repositories. Every invoice commit, delete, and
// return runs through it as one all-or-nothing unit.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseInvoiceRepository,
		salesRepo repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error) error
}

// StockLedger is the slice of the inventory ledger the invoice engine needs:
// applying and reversing movements with the caller's tx-bound repos. An error
// from either call must roll back the whole invoice operation.
type StockLedger interface {
	ApplyMovementInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		in inventory.MovementInput,
	) error
	ReverseMovementsInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		referenceID string,
		now time.Time,
	) error
}
