package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
	"github.com/hasanq/muhasaba/pkg/sequence"
)

// PurchaseUseCase creates and reverses purchase invoices. A purchase books
// stock in through the ledger and records one expense transaction, all in a
// single transaction.
type PurchaseUseCase struct {
	txRunner     BillingTxRunner
	ledger       StockLedger
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	purchaseRepo repository.PurchaseInvoiceRepository
	rateRepo     repository.ExchangeRateRepository
	seq          sequence.Generator
}

// NewPurchaseUseCase builds the use case.
func NewPurchaseUseCase(
	txRunner BillingTxRunner,
	ledger StockLedger,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	purchaseRepo repository.PurchaseInvoiceRepository,
	rateRepo repository.ExchangeRateRepository,
	seq sequence.Generator,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		purchaseRepo: purchaseRepo,
		rateRepo:     rateRepo,
		seq:          seq,
	}
}

// CreatePurchaseInvoice validates, prices, and commits a purchase: header,
// items, one purchase movement per line, and one expense transaction, as one
// atomic unit. No row is left behind on any failure.
func (uc *PurchaseUseCase) CreatePurchaseInvoice(ctx context.Context, actorID string, in dto.CreatePurchaseInvoiceRequest) (*dto.PurchaseInvoiceResponse, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	// Read-only validation outside the tx; the ledger re-checks inside.
	productsByID, err := uc.loadProducts(in.Items)
	if err != nil {
		return nil, err
	}

	// One rate snapshot per operation, fetched before any mutation.
	snap, err := currency.LoadSnapshot(uc.rateRepo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoiceNumber := uc.seq.Next(entity.PrefixPurchase)
	inv := &entity.PurchaseInvoice{
		ID:            uuid.New().String(),
		InvoiceNumber: invoiceNumber,
		SupplierID:    in.SupplierID,
		Date:          now,
		Notes:         in.Notes,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}
	var items []*entity.PurchaseInvoiceItem

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseInvoiceRepository,
		_ repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error {
		if err := purchaseRepo.Create(inv); err != nil {
			return err
		}

		var totalIQD, totalUSD decimal.Decimal
		for _, item := range in.Items {
			line, err := priceLine(item, productsByID[item.ProductID], snap)
			if err != nil {
				return err
			}
			if err := purchaseRepo.CreateItem(&entity.PurchaseInvoiceItem{
				ID:            uuid.New().String(),
				InvoiceID:     inv.ID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				UnitPriceIQD:  line.UnitPriceIQD,
				UnitPriceUSD:  line.UnitPriceUSD,
				TotalPriceIQD: line.TotalPriceIQD,
				TotalPriceUSD: line.TotalPriceUSD,
			}); err != nil {
				return err
			}
			if err := uc.ledger.ApplyMovementInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID:   line.ProductID,
				Kind:        entity.MovementPurchase,
				Quantity:    line.Quantity,
				ReferenceID: invoiceNumber,
				ActorID:     actorID,
				Now:         now,
			}); err != nil {
				return err
			}
			totalIQD = totalIQD.Add(line.TotalPriceIQD)
			totalUSD = totalUSD.Add(line.TotalPriceUSD)
		}

		inv.TotalAmountIQD = totalIQD
		inv.TotalAmountUSD = totalUSD
		if err := purchaseRepo.UpdateTotals(inv); err != nil {
			return err
		}

		return txLogRepo.Create(&entity.Transaction{
			ID:            uuid.New().String(),
			Type:          entity.TransactionExpense,
			AmountIQD:     totalIQD,
			AmountUSD:     totalUSD,
			Date:          now,
			Description:   fmt.Sprintf("Purchase Invoice %s", invoiceNumber),
			ReferenceType: entity.ReferencePurchaseInvoice,
			ReferenceID:   inv.ID,
			CreatedBy:     actorID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	items, err = uc.purchaseRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(inv, supplier.Name, items), nil
}

// DeletePurchaseInvoice reverses a purchase: stock is restored and movements
// removed (guarded by the most-recent-movement check), then the transaction
// row, items, and header are deleted, in that order, atomically. If any
// product has newer movements the whole delete aborts with the blocking
// product in the error.
func (uc *PurchaseUseCase) DeletePurchaseInvoice(ctx context.Context, id string) error {
	inv, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.ErrNotFound
	}
	now := time.Now()
	return uc.txRunner.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseInvoiceRepository,
		_ repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error {
		if err := uc.ledger.ReverseMovementsInTx(movRepo, productRepo, inv.InvoiceNumber, now); err != nil {
			return err
		}
		if err := txLogRepo.DeleteByReference(entity.ReferencePurchaseInvoice, inv.ID); err != nil {
			return err
		}
		if err := purchaseRepo.DeleteItems(inv.ID); err != nil {
			return err
		}
		return purchaseRepo.Delete(inv.ID)
	})
}

// GetPurchaseInvoice returns one invoice with its lines.
func (uc *PurchaseUseCase) GetPurchaseInvoice(ctx context.Context, id string) (*dto.PurchaseInvoiceResponse, error) {
	inv, err := uc.purchaseRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	supplierName := ""
	if supplier, _ := uc.supplierRepo.GetByID(inv.SupplierID); supplier != nil {
		supplierName = supplier.Name
	}
	return toPurchaseResponse(inv, supplierName, items), nil
}

// ListPurchaseInvoices lists invoice headers, optionally for one supplier.
func (uc *PurchaseUseCase) ListPurchaseInvoices(ctx context.Context, supplierID string, limit, offset int) ([]*dto.PurchaseInvoiceResponse, error) {
	var (
		invoices []*entity.PurchaseInvoice
		err      error
	)
	if supplierID != "" {
		invoices, err = uc.purchaseRepo.ListBySupplier(supplierID, limit, offset)
	} else {
		invoices, err = uc.purchaseRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseInvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toPurchaseResponse(inv, "", nil))
	}
	return out, nil
}

func (uc *PurchaseUseCase) loadProducts(items []dto.InvoiceItemRequest) (map[string]*entity.Product, error) {
	productsByID := make(map[string]*entity.Product, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := productsByID[item.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		productsByID[item.ProductID] = product
	}
	return productsByID, nil
}

func toPurchaseResponse(inv *entity.PurchaseInvoice, supplierName string, items []*entity.PurchaseInvoiceItem) *dto.PurchaseInvoiceResponse {
	resp := &dto.PurchaseInvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		SupplierID:     inv.SupplierID,
		SupplierName:   supplierName,
		Date:           inv.Date,
		TotalAmountIQD: inv.TotalAmountIQD,
		TotalAmountUSD: inv.TotalAmountUSD,
		Notes:          inv.Notes,
		Items:          make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPriceIQD:  it.UnitPriceIQD,
			UnitPriceUSD:  it.UnitPriceUSD,
			TotalPriceIQD: it.TotalPriceIQD,
			TotalPriceUSD: it.TotalPriceUSD,
		})
	}
	return resp
}
