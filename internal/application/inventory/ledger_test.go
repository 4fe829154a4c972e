package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
	"github.com/hasanq/muhasaba/pkg/sequence"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory fakes. The store mutex plays the role of the row lock: the fake
// tx runner holds it for the whole callback, so check-then-update sequences
// are serialized the same way SELECT FOR UPDATE serializes them in Postgres.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{products: make(map[string]*entity.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *memProductRepo) ListLowStock(threshold int64) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CurrentStock <= threshold {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memProductRepo) Update(p *entity.Product) error           { r.s.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateImageURL(id, imageURL string) error { return nil }
func (r *memProductRepo) Delete(id string) error                   { delete(r.s.products, id); return nil }
func (r *memProductRepo) IsReferenced(id string) (bool, error) {
	for _, m := range r.s.movements {
		if m.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *memProductRepo) UpdateStock(id string, newStock int64, at time.Time) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = newStock
	p.LastStockUpdate = at
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}
func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *memMovementRepo) List(from, to *time.Time, productID, kind string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

// LatestByProduct relies on append order: the slice is the creation order.
func (r *memMovementRepo) LatestByProduct(productID string) (*entity.StockMovement, error) {
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		if r.s.movements[i].ProductID == productID {
			return r.s.movements[i], nil
		}
	}
	return nil, nil
}
func (r *memMovementRepo) DeleteByReferenceAndProduct(referenceID, productID string) error {
	kept := r.s.movements[:0]
	for _, m := range r.s.movements {
		if m.ReferenceID == referenceID && m.ProductID == productID {
			continue
		}
		kept = append(kept, m)
	}
	r.s.movements = kept
	return nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(&memMovementRepo{s: t.s}, &memProductRepo{s: t.s})
}

// lockedProductRepo and lockedMovementRepo play the pool-bound repos: each
// call takes the store lock on its own, unlike the tx-bound repos which run
// with the lock already held by the tx runner.
type lockedProductRepo struct{ s *memStore }

func (r *lockedProductRepo) with() (*memProductRepo, func()) {
	r.s.mu.Lock()
	return &memProductRepo{s: r.s}, r.s.mu.Unlock
}
func (r *lockedProductRepo) Create(p *entity.Product) error {
	d, done := r.with()
	defer done()
	return d.Create(p)
}
func (r *lockedProductRepo) GetByID(id string) (*entity.Product, error) {
	d, done := r.with()
	defer done()
	return d.GetByID(id)
}
func (r *lockedProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	d, done := r.with()
	defer done()
	return d.GetBySKU(sku)
}
func (r *lockedProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	d, done := r.with()
	defer done()
	return d.List(limit, offset)
}
func (r *lockedProductRepo) ListLowStock(threshold int64) ([]*entity.Product, error) {
	d, done := r.with()
	defer done()
	return d.ListLowStock(threshold)
}
func (r *lockedProductRepo) Update(p *entity.Product) error {
	d, done := r.with()
	defer done()
	return d.Update(p)
}
func (r *lockedProductRepo) UpdateImageURL(id, imageURL string) error {
	d, done := r.with()
	defer done()
	return d.UpdateImageURL(id, imageURL)
}
func (r *lockedProductRepo) Delete(id string) error {
	d, done := r.with()
	defer done()
	return d.Delete(id)
}
func (r *lockedProductRepo) IsReferenced(id string) (bool, error) {
	d, done := r.with()
	defer done()
	return d.IsReferenced(id)
}
func (r *lockedProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	d, done := r.with()
	defer done()
	return d.GetForUpdate(id)
}
func (r *lockedProductRepo) UpdateStock(id string, newStock int64, at time.Time) error {
	d, done := r.with()
	defer done()
	return d.UpdateStock(id, newStock, at)
}

type lockedMovementRepo struct{ s *memStore }

func (r *lockedMovementRepo) with() (*memMovementRepo, func()) {
	r.s.mu.Lock()
	return &memMovementRepo{s: r.s}, r.s.mu.Unlock
}
func (r *lockedMovementRepo) Create(m *entity.StockMovement) error {
	d, done := r.with()
	defer done()
	return d.Create(m)
}
func (r *lockedMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	d, done := r.with()
	defer done()
	return d.GetByID(id)
}
func (r *lockedMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	d, done := r.with()
	defer done()
	return d.ListByProduct(productID, from, to, limit, offset)
}
func (r *lockedMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	d, done := r.with()
	defer done()
	return d.ListByReference(referenceID)
}
func (r *lockedMovementRepo) List(from, to *time.Time, productID, kind string, limit, offset int) ([]*entity.StockMovement, error) {
	d, done := r.with()
	defer done()
	return d.List(from, to, productID, kind, limit, offset)
}
func (r *lockedMovementRepo) LatestByProduct(productID string) (*entity.StockMovement, error) {
	d, done := r.with()
	defer done()
	return d.LatestByProduct(productID)
}
func (r *lockedMovementRepo) DeleteByReferenceAndProduct(referenceID, productID string) error {
	d, done := r.with()
	defer done()
	return d.DeleteByReferenceAndProduct(referenceID, productID)
}

func newLedger(s *memStore) *inventory.Ledger {
	return inventory.NewLedger(&memTxRunner{s: s}, &lockedProductRepo{s: s}, &lockedMovementRepo{s: s}, sequence.New(nil))
}

func product(id string, stock int64) *entity.Product {
	return &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Product " + id, CurrentStock: stock}
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_PurchaseIncreasesStock(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	err := l.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: "p1", Kind: entity.MovementPurchase, Quantity: 5, ReferenceID: "PUR-1", ActorID: "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(15), s.products["p1"].CurrentStock)
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementPurchase, s.movements[0].Kind)
	assert.Equal(t, int64(5), s.movements[0].Quantity)
	assert.Equal(t, "PUR-1", s.movements[0].ReferenceID)
}

func TestRegisterMovement_SaleDecreasesStock(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	err := l.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: "p1", Kind: entity.MovementSale, Quantity: 4, ReferenceID: "SAL-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.products["p1"].CurrentStock)
}

func TestRegisterMovement_InsufficientStock(t *testing.T) {
	s := newMemStore(product("p1", 3))
	l := newLedger(s)

	err := l.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: "p1", Kind: entity.MovementSale, Quantity: 5,
	})

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, int64(3), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)
	assert.Equal(t, int64(3), s.products["p1"].CurrentStock, "stock must be untouched after rejection")
	assert.Empty(t, s.movements, "no movement may be recorded for a rejected change")
}

func TestRegisterMovement_DamageIsOutbound(t *testing.T) {
	s := newMemStore(product("p1", 2))
	l := newLedger(s)

	err := l.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: "p1", Kind: entity.MovementDamage, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.products["p1"].CurrentStock)
}

func TestRegisterMovement_Validation(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)
	ctx := context.Background()

	err := l.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", Kind: "teleport", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "unknown kind")

	err = l.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", Kind: entity.MovementSale, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "zero quantity")

	err = l.RegisterMovement(ctx, inventory.MovementInput{ProductID: "p1", Kind: entity.MovementSale, Quantity: -2})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "negative quantity")

	err = l.RegisterMovement(ctx, inventory.MovementInput{ProductID: "ghost", Kind: entity.MovementSale, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown product")
}

func TestRegisterMovement_LastUnitOnlyOneWinner(t *testing.T) {
	s := newMemStore(product("p1", 1))
	l := newLedger(s)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.RegisterMovement(context.Background(), inventory.MovementInput{
				ProductID: "p1", Kind: entity.MovementSale, Quantity: 1,
			})
		}(i)
	}
	wg.Wait()

	var oks, fails int
	for _, err := range errs {
		if err == nil {
			oks++
			continue
		}
		var ise *domain.InsufficientStockError
		require.ErrorAs(t, err, &ise)
		fails++
	}
	assert.Equal(t, 1, oks, "exactly one sale must win the last unit")
	assert.Equal(t, 1, fails, "the other must fail with insufficient stock")
	assert.Equal(t, int64(0), s.products["p1"].CurrentStock)
	assert.Len(t, s.movements, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetStock (manual absolute adjustment)
// ──────────────────────────────────────────────────────────────────────────────

func TestSetStock_RecordsTrueDelta(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	stock, err := l.SetStock(context.Background(), "p1", 4, "yearly count", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), stock)
	assert.Equal(t, int64(4), s.products["p1"].CurrentStock)

	require.Len(t, s.movements, 1)
	mov := s.movements[0]
	assert.Equal(t, entity.MovementAdjustment, mov.Kind)
	assert.Equal(t, int64(6), mov.Quantity, "audit quantity must be the absolute delta")
	assert.Equal(t, "yearly count", mov.Notes)
}

func TestSetStock_IncreaseAlsoRecordsDelta(t *testing.T) {
	s := newMemStore(product("p1", 3))
	l := newLedger(s)

	_, err := l.SetStock(context.Background(), "p1", 20, "", "u1")
	require.NoError(t, err)

	require.Len(t, s.movements, 1)
	assert.Equal(t, int64(17), s.movements[0].Quantity)
}

func TestSetStock_NoChangeNoMovement(t *testing.T) {
	s := newMemStore(product("p1", 7))
	l := newLedger(s)

	stock, err := l.SetStock(context.Background(), "p1", 7, "", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stock)
	assert.Empty(t, s.movements, "setting stock to its current value must not log an adjustment")
}

func TestSetStock_RejectsNegative(t *testing.T) {
	s := newMemStore(product("p1", 7))
	l := newLedger(s)

	_, err := l.SetStock(context.Background(), "p1", -1, "", "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// ReverseMovementsInTx (compensating invoice reversal)
// ──────────────────────────────────────────────────────────────────────────────

// applyRef is a helper that applies movements under one reference directly
// through the ledger's in-tx path, like the billing use cases do.
func applyRef(t *testing.T, s *memStore, l *inventory.Ledger, ref, kind string, lines map[string]int64) {
	t.Helper()
	runner := &memTxRunner{s: s}
	err := runner.Run(context.Background(), func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		for pid, qty := range lines {
			if err := l.ApplyMovementInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID: pid, Kind: kind, Quantity: qty, ReferenceID: ref, Now: time.Now(),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func reverse(s *memStore, l *inventory.Ledger, ref string) error {
	runner := &memTxRunner{s: s}
	return runner.Run(context.Background(), func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return l.ReverseMovementsInTx(movRepo, productRepo, ref, time.Now())
	})
}

func TestReverse_RestoresStockAndDeletesMovements(t *testing.T) {
	s := newMemStore(product("p1", 10), product("p2", 10))
	l := newLedger(s)

	applyRef(t, s, l, "SAL-1", entity.MovementSale, map[string]int64{"p1": 3, "p2": 5})
	require.Equal(t, int64(7), s.products["p1"].CurrentStock)
	require.Equal(t, int64(5), s.products["p2"].CurrentStock)

	require.NoError(t, reverse(s, l, "SAL-1"))

	assert.Equal(t, int64(10), s.products["p1"].CurrentStock)
	assert.Equal(t, int64(10), s.products["p2"].CurrentStock)
	assert.Empty(t, s.movements, "reversed movements must be removed from the log")
}

func TestReverse_UnknownReferenceIsNoop(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	require.NoError(t, reverse(s, l, "SAL-none"))
	assert.Equal(t, int64(10), s.products["p1"].CurrentStock)
}

func TestReverse_StaleWhenNewerMovementExists(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	applyRef(t, s, l, "SAL-1", entity.MovementSale, map[string]int64{"p1": 3})
	// A later sale of the same product makes SAL-1 non-reversible.
	applyRef(t, s, l, "SAL-2", entity.MovementSale, map[string]int64{"p1": 2})

	err := reverse(s, l, "SAL-1")

	var sre *domain.StaleReversalError
	require.ErrorAs(t, err, &sre)
	assert.Equal(t, "p1", sre.ProductID)
	assert.Equal(t, int64(5), s.products["p1"].CurrentStock, "a failed reversal must not touch stock")
	assert.Len(t, s.movements, 2)
}

// contendedProductRepo models a reversal losing a row-lock race: the first
// GetForUpdate blocks on another transaction, and by the time the lock is
// granted that transaction has committed a newer sale of the same product.
type contendedProductRepo struct {
	memProductRepo
	raced bool
}

func (r *contendedProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	if !r.raced {
		r.raced = true
		r.s.products[id].CurrentStock -= 2
		r.s.movements = append(r.s.movements, &entity.StockMovement{
			ID: "m-raced", ProductID: id, Kind: entity.MovementSale,
			Quantity: 2, ReferenceID: "SAL-2", CreatedAt: time.Now(),
		})
	}
	return r.memProductRepo.GetForUpdate(id)
}

func TestReverse_MovementCommittedWhileWaitingForLock(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	applyRef(t, s, l, "SAL-1", entity.MovementSale, map[string]int64{"p1": 3})

	// The ordering guard must run only after the row lock is held, so a sale
	// that commits while the reversal waits is seen and aborts the undo.
	runner := &memTxRunner{s: s}
	err := runner.Run(context.Background(), func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		raced := &contendedProductRepo{memProductRepo: memProductRepo{s: s}}
		return l.ReverseMovementsInTx(movRepo, raced, "SAL-1", time.Now())
	})

	var sre *domain.StaleReversalError
	require.ErrorAs(t, err, &sre)
	assert.Equal(t, "p1", sre.ProductID)
	assert.Equal(t, int64(5), s.products["p1"].CurrentStock, "both sales must stand, nothing reversed")
	assert.Len(t, s.movements, 2)
}

func TestReverse_NewestReferenceStillReversible(t *testing.T) {
	s := newMemStore(product("p1", 10))
	l := newLedger(s)

	applyRef(t, s, l, "SAL-1", entity.MovementSale, map[string]int64{"p1": 3})
	applyRef(t, s, l, "SAL-2", entity.MovementSale, map[string]int64{"p1": 2})

	require.NoError(t, reverse(s, l, "SAL-2"))
	assert.Equal(t, int64(7), s.products["p1"].CurrentStock)
	require.Len(t, s.movements, 1)
	assert.Equal(t, "SAL-1", s.movements[0].ReferenceID)
}

func TestReverse_InboundReversalCannotGoNegative(t *testing.T) {
	s := newMemStore(product("p1", 0))
	l := newLedger(s)

	applyRef(t, s, l, "PUR-1", entity.MovementPurchase, map[string]int64{"p1": 5})
	// The purchased units leave under a manual damage entry first.
	require.NoError(t, l.RegisterMovement(context.Background(), inventory.MovementInput{
		ProductID: "p1", Kind: entity.MovementDamage, Quantity: 4, ReferenceID: "ADJ-1",
	}))

	// PUR-1 now has a newer movement, so the ordering guard fires before the
	// quantity check ever runs.
	err := reverse(s, l, "PUR-1")
	var sre *domain.StaleReversalError
	assert.ErrorAs(t, err, &sre)
}

// ──────────────────────────────────────────────────────────────────────────────
// Read paths
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock(t *testing.T) {
	s := newMemStore(product("p1", 42))
	l := newLedger(s)

	stock, err := l.CurrentStock(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), stock)

	_, err = l.CurrentStock(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLowStock(t *testing.T) {
	s := newMemStore(product("low", 2), product("ok", 50))
	l := newLedger(s)

	out, err := l.LowStock(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "low", out[0].ID)
}
