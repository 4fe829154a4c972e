package billing_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
	"github.com/hasanq/muhasaba/pkg/sequence"
)

// world is the shared in-memory state behind all fake repositories. The fake
// tx runner snapshots it before the callback and restores the snapshot on
// error, mirroring a rolled-back transaction.
type world struct {
	products      map[string]*entity.Product
	movements     []*entity.StockMovement
	purchases     map[string]*entity.PurchaseInvoice
	purchaseItems map[string][]*entity.PurchaseInvoiceItem
	sales         map[string]*entity.SalesInvoice
	salesItems    map[string][]*entity.SalesInvoiceItem
	transactions  []*entity.Transaction
	suppliers     map[string]*entity.Supplier
	customers     map[string]*entity.Customer
	rates         []*entity.ExchangeRate

	failTransactionCreate bool // force the last in-tx step to fail
}

func newWorld() *world {
	return &world{
		products:      make(map[string]*entity.Product),
		purchases:     make(map[string]*entity.PurchaseInvoice),
		purchaseItems: make(map[string][]*entity.PurchaseInvoiceItem),
		sales:         make(map[string]*entity.SalesInvoice),
		salesItems:    make(map[string][]*entity.SalesInvoiceItem),
		suppliers:     make(map[string]*entity.Supplier),
		customers:     make(map[string]*entity.Customer),
	}
}

func (w *world) clone() *world {
	c := newWorld()
	for id, p := range w.products {
		cp := *p
		c.products[id] = &cp
	}
	for _, m := range w.movements {
		cm := *m
		c.movements = append(c.movements, &cm)
	}
	for id, inv := range w.purchases {
		ci := *inv
		c.purchases[id] = &ci
	}
	for id, items := range w.purchaseItems {
		for _, it := range items {
			ci := *it
			c.purchaseItems[id] = append(c.purchaseItems[id], &ci)
		}
	}
	for id, inv := range w.sales {
		ci := *inv
		c.sales[id] = &ci
	}
	for id, items := range w.salesItems {
		for _, it := range items {
			ci := *it
			c.salesItems[id] = append(c.salesItems[id], &ci)
		}
	}
	for _, tx := range w.transactions {
		ct := *tx
		c.transactions = append(c.transactions, &ct)
	}
	for id, s := range w.suppliers {
		cs := *s
		c.suppliers[id] = &cs
	}
	for id, cu := range w.customers {
		cc := *cu
		c.customers[id] = &cc
	}
	for _, r := range w.rates {
		cr := *r
		c.rates = append(c.rates, &cr)
	}
	c.failTransactionCreate = w.failTransactionCreate
	return c
}

// ──────────────────────────────────────────────────────────────────────────────
// Fake repositories
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct{ w *world }

func (r *fakeProductRepo) Create(p *entity.Product) error { r.w.products[p.ID] = p; return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.w.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error)      { return nil, nil }
func (r *fakeProductRepo) List(limit, offset int) ([]*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) ListLowStock(t int64) ([]*entity.Product, error)   { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error                    { return nil }
func (r *fakeProductRepo) UpdateImageURL(id, imageURL string) error          { return nil }
func (r *fakeProductRepo) Delete(id string) error                            { return nil }
func (r *fakeProductRepo) IsReferenced(id string) (bool, error)              { return false, nil }
func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error)   { return r.GetByID(id) }
func (r *fakeProductRepo) UpdateStock(id string, newStock int64, at time.Time) error {
	p, ok := r.w.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = newStock
	p.LastStockUpdate = at
	return nil
}

type fakeMovementRepo struct{ w *world }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.w.movements = append(r.w.movements, m)
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) ListByReference(referenceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.w.movements {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) List(from, to *time.Time, productID, kind string, limit, offset int) ([]*entity.StockMovement, error) {
	return r.w.movements, nil
}
func (r *fakeMovementRepo) LatestByProduct(productID string) (*entity.StockMovement, error) {
	for i := len(r.w.movements) - 1; i >= 0; i-- {
		if r.w.movements[i].ProductID == productID {
			return r.w.movements[i], nil
		}
	}
	return nil, nil
}
func (r *fakeMovementRepo) DeleteByReferenceAndProduct(referenceID, productID string) error {
	kept := r.w.movements[:0]
	for _, m := range r.w.movements {
		if m.ReferenceID == referenceID && m.ProductID == productID {
			continue
		}
		kept = append(kept, m)
	}
	r.w.movements = kept
	return nil
}

type fakePurchaseRepo struct{ w *world }

func (r *fakePurchaseRepo) Create(inv *entity.PurchaseInvoice) error {
	r.w.purchases[inv.ID] = inv
	return nil
}
func (r *fakePurchaseRepo) CreateItem(item *entity.PurchaseInvoiceItem) error {
	r.w.purchaseItems[item.InvoiceID] = append(r.w.purchaseItems[item.InvoiceID], item)
	return nil
}
func (r *fakePurchaseRepo) UpdateTotals(inv *entity.PurchaseInvoice) error {
	stored, ok := r.w.purchases[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.TotalAmountIQD = inv.TotalAmountIQD
	stored.TotalAmountUSD = inv.TotalAmountUSD
	return nil
}
func (r *fakePurchaseRepo) GetByID(id string) (*entity.PurchaseInvoice, error) {
	inv, ok := r.w.purchases[id]
	if !ok {
		return nil, nil
	}
	ci := *inv
	return &ci, nil
}
func (r *fakePurchaseRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.PurchaseInvoiceItem, error) {
	return r.w.purchaseItems[invoiceID], nil
}
func (r *fakePurchaseRepo) List(limit, offset int) ([]*entity.PurchaseInvoice, error) {
	var out []*entity.PurchaseInvoice
	for _, inv := range r.w.purchases {
		out = append(out, inv)
	}
	return out, nil
}
func (r *fakePurchaseRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.PurchaseInvoice, error) {
	var out []*entity.PurchaseInvoice
	for _, inv := range r.w.purchases {
		if inv.SupplierID == supplierID {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (r *fakePurchaseRepo) DeleteItems(invoiceID string) error {
	delete(r.w.purchaseItems, invoiceID)
	return nil
}
func (r *fakePurchaseRepo) Delete(id string) error { delete(r.w.purchases, id); return nil }

type fakeSalesRepo struct{ w *world }

func (r *fakeSalesRepo) Create(inv *entity.SalesInvoice) error { r.w.sales[inv.ID] = inv; return nil }
func (r *fakeSalesRepo) CreateItem(item *entity.SalesInvoiceItem) error {
	r.w.salesItems[item.InvoiceID] = append(r.w.salesItems[item.InvoiceID], item)
	return nil
}
func (r *fakeSalesRepo) GetByID(id string) (*entity.SalesInvoice, error) {
	inv, ok := r.w.sales[id]
	if !ok {
		return nil, nil
	}
	ci := *inv
	return &ci, nil
}
func (r *fakeSalesRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.SalesInvoiceItem, error) {
	return r.w.salesItems[invoiceID], nil
}
func (r *fakeSalesRepo) List(limit, offset int) ([]*entity.SalesInvoice, error) {
	var out []*entity.SalesInvoice
	for _, inv := range r.w.sales {
		out = append(out, inv)
	}
	return out, nil
}
func (r *fakeSalesRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.SalesInvoice, error) {
	var out []*entity.SalesInvoice
	for _, inv := range r.w.sales {
		if inv.CustomerID == customerID {
			out = append(out, inv)
		}
	}
	return out, nil
}
func (r *fakeSalesRepo) DeleteItems(invoiceID string) error {
	delete(r.w.salesItems, invoiceID)
	return nil
}
func (r *fakeSalesRepo) Delete(id string) error { delete(r.w.sales, id); return nil }

type fakeTransactionRepo struct{ w *world }

var errForcedTxFailure = errors.New("forced transaction log failure")

func (r *fakeTransactionRepo) Create(tx *entity.Transaction) error {
	if r.w.failTransactionCreate {
		return errForcedTxFailure
	}
	r.w.transactions = append(r.w.transactions, tx)
	return nil
}
func (r *fakeTransactionRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Transaction, error) {
	return r.w.transactions, nil
}
func (r *fakeTransactionRepo) DeleteByReference(referenceType, referenceID string) error {
	kept := r.w.transactions[:0]
	for _, tx := range r.w.transactions {
		if tx.ReferenceType == referenceType && tx.ReferenceID == referenceID {
			continue
		}
		kept = append(kept, tx)
	}
	r.w.transactions = kept
	return nil
}

type fakeSupplierRepo struct{ w *world }

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { r.w.suppliers[s.ID] = s; return nil }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	s, ok := r.w.suppliers[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (r *fakeSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) { return nil, nil }
func (r *fakeSupplierRepo) Update(s *entity.Supplier) error                    { return nil }
func (r *fakeSupplierRepo) Delete(id string) error                             { return nil }
func (r *fakeSupplierRepo) HasInvoices(id string) (bool, error)                { return false, nil }

type fakeCustomerRepo struct{ w *world }

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.w.customers[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.w.customers[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *fakeCustomerRepo) List(limit, offset int) ([]*entity.Customer, error) { return nil, nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error                    { return nil }
func (r *fakeCustomerRepo) Delete(id string) error                             { return nil }
func (r *fakeCustomerRepo) HasInvoices(id string) (bool, error)                { return false, nil }

type fakeRateRepo struct{ w *world }

func (r *fakeRateRepo) Create(rate *entity.ExchangeRate) error {
	r.w.rates = append(r.w.rates, rate)
	return nil
}
func (r *fakeRateRepo) Latest() (*entity.ExchangeRate, error) {
	if len(r.w.rates) == 0 {
		return nil, nil
	}
	latest := r.w.rates[0]
	for _, rt := range r.w.rates[1:] {
		if rt.EffectiveDate.After(latest.EffectiveDate) {
			latest = rt
		}
	}
	return latest, nil
}
func (r *fakeRateRepo) List(limit, offset int) ([]*entity.ExchangeRate, error) {
	return r.w.rates, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fake tx runners
// ──────────────────────────────────────────────────────────────────────────────

// fakeBillingRunner restores the pre-callback snapshot when fn errors, so
// every observable half-write disappears exactly like a DB rollback.
type fakeBillingRunner struct{ w *world }

func (t *fakeBillingRunner) RunBilling(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseInvoiceRepository,
	salesRepo repository.SalesInvoiceRepository,
	txLogRepo repository.TransactionRepository,
) error) error {
	snapshot := t.w.clone()
	err := fn(
		&fakeMovementRepo{w: t.w},
		&fakeProductRepo{w: t.w},
		&fakePurchaseRepo{w: t.w},
		&fakeSalesRepo{w: t.w},
		&fakeTransactionRepo{w: t.w},
	)
	if err != nil {
		*t.w = *snapshot
	}
	return err
}

type fakeInventoryRunner struct{ w *world }

func (t *fakeInventoryRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	snapshot := t.w.clone()
	err := fn(&fakeMovementRepo{w: t.w}, &fakeProductRepo{w: t.w})
	if err != nil {
		*t.w = *snapshot
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Builders
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seededWorld returns a world with one supplier, one customer, two products,
// and a 1500 IQD/USD rate.
func seededWorld() *world {
	w := newWorld()
	w.suppliers["s1"] = &entity.Supplier{ID: "s1", Name: "Al-Noor Trading"}
	w.customers["c1"] = &entity.Customer{ID: "c1", Name: "Hasan Market"}
	w.products["p1"] = &entity.Product{
		ID: "p1", SKU: "SKU-1", Name: "Sugar 1kg",
		PriceIQD: d("1500"), PriceUSD: d("1"), CurrentStock: 100,
	}
	w.products["p2"] = &entity.Product{
		ID: "p2", SKU: "SKU-2", Name: "Rice 5kg",
		PriceIQD: d("7500"), PriceUSD: d("5"), CurrentStock: 50,
	}
	w.rates = append(w.rates, &entity.ExchangeRate{
		ID: "r1", USDToIQD: d("1500"), EffectiveDate: time.Now(),
	})
	return w
}

func newPurchaseUC(w *world) *billing.PurchaseUseCase {
	ledger := inventory.NewLedger(
		&fakeInventoryRunner{w: w}, &fakeProductRepo{w: w}, &fakeMovementRepo{w: w}, sequence.New(nil))
	return billing.NewPurchaseUseCase(
		&fakeBillingRunner{w: w}, ledger,
		&fakeProductRepo{w: w}, &fakeSupplierRepo{w: w}, &fakePurchaseRepo{w: w},
		&fakeRateRepo{w: w}, sequence.New(nil))
}

func newSalesUC(w *world) *billing.SalesUseCase {
	ledger := inventory.NewLedger(
		&fakeInventoryRunner{w: w}, &fakeProductRepo{w: w}, &fakeMovementRepo{w: w}, sequence.New(nil))
	return billing.NewSalesUseCase(
		&fakeBillingRunner{w: w}, ledger,
		&fakeProductRepo{w: w}, &fakeCustomerRepo{w: w}, &fakeSalesRepo{w: w},
		&fakeRateRepo{w: w}, sequence.New(nil))
}
