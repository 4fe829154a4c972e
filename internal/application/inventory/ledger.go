package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
	"github.com/hasanq/muhasaba/pkg/sequence"
)

// Ledger owns current_stock per product and the append-only movement log.
// Every quantity change goes through here, always as a locked
// check-then-update plus exactly one movement record in the same transaction.
type Ledger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	seq         sequence.Generator
}

// NewLedger builds the stock ledger. productRepo and movRepo are pool-bound
// and used for read paths only; mutations run through txRunner.
func NewLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	seq sequence.Generator,
) *Ledger {
	return &Ledger{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo, seq: seq}
}

// MovementInput describes one stock change to apply.
type MovementInput struct {
	ProductID   string
	Kind        string // purchase, sale, damage, adjustment, return
	Quantity    int64  // > 0, direction implied by Kind
	ReferenceID string
	Notes       string
	ActorID     string
	Now         time.Time
}

// ApplyMovementInTx applies one movement using the caller's tx-bound repos.
// The product row is locked (SELECT FOR UPDATE) before the stock check so two
// concurrent outbound movements for the last unit cannot both pass; the loser
// gets InsufficientStockError from the re-read row.
func (l *Ledger) ApplyMovementInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	in MovementInput,
) error {
	if !entity.ValidMovementKind(in.Kind) || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	newStock := product.CurrentStock
	if entity.MovementIncreasesStock(in.Kind) {
		newStock += in.Quantity
	} else {
		if product.CurrentStock < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID: in.ProductID,
				Available: product.CurrentStock,
				Requested: in.Quantity,
			}
		}
		newStock -= in.Quantity
	}

	if err := productRepo.UpdateStock(in.ProductID, newStock, in.Now); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		CreatedBy:   in.ActorID,
		CreatedAt:   in.Now,
	}
	return movRepo.Create(mov)
}

// ReverseMovementsInTx undoes every movement tagged with referenceID, using
// the caller's tx-bound repos. A movement may only be reversed while it is
// still the most recent movement of its product; if any affected product has
// a newer movement the whole reversal fails with StaleReversalError and
// nothing is undone. Every affected product row is locked before the guard
// runs, so a concurrent invoice cannot slip a movement in between the check
// and the undo.
func (l *Ledger) ReverseMovementsInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	referenceID string,
	now time.Time,
) error {
	movements, err := movRepo.ListByReference(referenceID)
	if err != nil {
		return err
	}
	if len(movements) == 0 {
		return nil
	}

	// Lock first, in first-appearance order so concurrent reversals of the
	// same reference lock in the same sequence.
	locked := make(map[string]*entity.Product, len(movements))
	for _, m := range movements {
		if _, ok := locked[m.ProductID]; ok {
			continue
		}
		product, err := productRepo.GetForUpdate(m.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		locked[m.ProductID] = product
	}

	// Ordering guard under the locks, across the whole product set.
	for productID := range locked {
		latest, err := movRepo.LatestByProduct(productID)
		if err != nil {
			return err
		}
		if latest == nil || latest.ReferenceID != referenceID {
			return &domain.StaleReversalError{ProductID: productID, Reference: referenceID}
		}
	}

	for _, m := range movements {
		product := locked[m.ProductID]
		newStock := product.CurrentStock
		if entity.MovementIncreasesStock(m.Kind) {
			// Undoing an inbound movement removes units; stock may not go negative.
			if product.CurrentStock < m.Quantity {
				return &domain.InsufficientStockError{
					ProductID: m.ProductID,
					Available: product.CurrentStock,
					Requested: m.Quantity,
				}
			}
			newStock -= m.Quantity
		} else {
			newStock += m.Quantity
		}
		if err := productRepo.UpdateStock(m.ProductID, newStock, now); err != nil {
			return err
		}
		product.CurrentStock = newStock
	}
	for productID := range locked {
		if err := movRepo.DeleteByReferenceAndProduct(referenceID, productID); err != nil {
			return err
		}
	}
	return nil
}

// RegisterMovement applies a standalone movement (manual entry via the
// inventory API) in its own transaction.
func (l *Ledger) RegisterMovement(ctx context.Context, in MovementInput) error {
	if in.ProductID == "" || !entity.ValidMovementKind(in.Kind) || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	product, err := l.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}
	return l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return l.ApplyMovementInTx(movRepo, productRepo, in)
	})
}

// SetStock performs a manual absolute adjustment: stock is set to newQuantity
// and an adjustment movement is recorded with the true delta abs(new - old)
// as its quantity, so the audit log always matches the actual stock change.
func (l *Ledger) SetStock(ctx context.Context, productID string, newQuantity int64, notes, actorID string) (int64, error) {
	if productID == "" || newQuantity < 0 {
		return 0, domain.ErrInvalidInput
	}
	now := time.Now()
	referenceID := l.seq.Next(entity.PrefixAdjustment)

	err := l.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		delta := newQuantity - product.CurrentStock
		if delta == 0 {
			return nil
		}
		if err := productRepo.UpdateStock(productID, newQuantity, now); err != nil {
			return err
		}
		quantity := delta
		if quantity < 0 {
			quantity = -quantity
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ProductID:   productID,
			Kind:        entity.MovementAdjustment,
			Quantity:    quantity,
			ReferenceID: referenceID,
			Notes:       notes,
			CreatedBy:   actorID,
			CreatedAt:   now,
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return 0, err
	}
	return newQuantity, nil
}

// CurrentStock returns the on-hand quantity for a product.
func (l *Ledger) CurrentStock(ctx context.Context, productID string) (int64, error) {
	product, err := l.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	return product.CurrentStock, nil
}

// History lists a product's movements within a date range, newest first.
func (l *Ledger) History(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	product, err := l.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return l.movRepo.ListByProduct(productID, from, to, limit, offset)
}

// Movements lists movements across products with optional filters (reports).
func (l *Ledger) Movements(ctx context.Context, from, to *time.Time, productID, kind string, limit, offset int) ([]*entity.StockMovement, error) {
	return l.movRepo.List(from, to, productID, kind, limit, offset)
}

// LowStock lists products at or below the threshold.
func (l *Ledger) LowStock(ctx context.Context, threshold int64) ([]*entity.Product, error) {
	return l.productRepo.ListLowStock(threshold)
}
