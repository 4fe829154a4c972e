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

// SalesUseCase creates, returns, and reverses sales invoices. A sale books
// stock out through the ledger and records one revenue transaction; a return
// is a new compensating event that books stock back in and records an expense
// at the original invoice's unit prices.
type SalesUseCase struct {
	txRunner     BillingTxRunner
	ledger       StockLedger
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	salesRepo    repository.SalesInvoiceRepository
	rateRepo     repository.ExchangeRateRepository
	seq          sequence.Generator
}

// NewSalesUseCase builds the use case.
func NewSalesUseCase(
	txRunner BillingTxRunner,
	ledger StockLedger,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	salesRepo repository.SalesInvoiceRepository,
	rateRepo repository.ExchangeRateRepository,
	seq sequence.Generator,
) *SalesUseCase {
	return &SalesUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		salesRepo:    salesRepo,
		rateRepo:     rateRepo,
		seq:          seq,
	}
}

// CreateSalesInvoice validates every line before any mutation (a single
// insufficient line aborts the whole invoice), prices lines with one rate
// snapshot, and commits header, items, sale movements, and one revenue
// transaction atomically. The authoritative stock check happens inside the
// transaction against the locked product row.
func (uc *SalesUseCase) CreateSalesInvoice(ctx context.Context, actorID string, in dto.CreateSalesInvoiceRequest) (*dto.SalesInvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 || in.DiscountIQD.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	productsByID := make(map[string]*entity.Product, len(in.Items))
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, ok := productsByID[item.ProductID]
		if !ok {
			product, err = uc.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, domain.ErrNotFound
			}
			productsByID[item.ProductID] = product
		}
		// Early check for a friendly error; re-checked under lock in the tx.
		if product.CurrentStock < item.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: item.ProductID,
				Available: product.CurrentStock,
				Requested: item.Quantity,
			}
		}
	}

	snap, err := currency.LoadSnapshot(uc.rateRepo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoiceNumber := uc.seq.Next(entity.PrefixSales)
	inv := &entity.SalesInvoice{
		ID:            uuid.New().String(),
		InvoiceNumber: invoiceNumber,
		CustomerID:    in.CustomerID,
		Date:          now,
		DiscountIQD:   in.DiscountIQD,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedBy:     actorID,
		CreatedAt:     now,
	}

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.PurchaseInvoiceRepository,
		salesRepo repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error {
		var subtotalIQD, subtotalUSD decimal.Decimal
		lines := make([]pricedLine, 0, len(in.Items))
		for _, item := range in.Items {
			line, err := priceLine(item, productsByID[item.ProductID], snap)
			if err != nil {
				return err
			}
			lines = append(lines, line)
			subtotalIQD = subtotalIQD.Add(line.TotalPriceIQD)
			subtotalUSD = subtotalUSD.Add(line.TotalPriceUSD)
		}
		if in.DiscountIQD.GreaterThan(subtotalIQD) {
			return domain.ErrInvalidInput
		}

		discountUSD := snap.ToUSD(in.DiscountIQD)
		inv.SubtotalIQD = subtotalIQD
		inv.SubtotalUSD = subtotalUSD
		inv.DiscountUSD = discountUSD
		inv.TotalAmountIQD = subtotalIQD.Sub(in.DiscountIQD)
		inv.TotalAmountUSD = subtotalUSD.Sub(discountUSD)

		if err := salesRepo.Create(inv); err != nil {
			return err
		}
		for _, line := range lines {
			if err := salesRepo.CreateItem(&entity.SalesInvoiceItem{
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
				Kind:        entity.MovementSale,
				Quantity:    line.Quantity,
				ReferenceID: invoiceNumber,
				ActorID:     actorID,
				Now:         now,
			}); err != nil {
				return err
			}
		}

		return txLogRepo.Create(&entity.Transaction{
			ID:            uuid.New().String(),
			Type:          entity.TransactionRevenue,
			AmountIQD:     inv.TotalAmountIQD,
			AmountUSD:     inv.TotalAmountUSD,
			Date:          now,
			Description:   fmt.Sprintf("Sales Invoice %s", invoiceNumber),
			ReferenceType: entity.ReferenceSalesInvoice,
			ReferenceID:   inv.ID,
			CreatedBy:     actorID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	items, err := uc.salesRepo.GetItemsByInvoiceID(inv.ID)
	if err != nil {
		return nil, err
	}
	return toSalesResponse(inv, customer.Name, items), nil
}

// CreateSalesReturn processes a partial return of a committed sales invoice.
// Each returned line is checked against the original line quantity
// (ExcessReturnError beyond it); stock is booked back in under a fresh RET
// reference and one expense transaction records the return value at the
// original unit prices. The original invoice and its movements are left
// untouched.
func (uc *SalesUseCase) CreateSalesReturn(ctx context.Context, actorID, invoiceID string, in dto.CreateSalesReturnRequest) (*dto.SalesReturnResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.salesRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	originalItems, err := uc.salesRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, err
	}
	originalByProduct := make(map[string]*entity.SalesInvoiceItem, len(originalItems))
	for _, it := range originalItems {
		if _, ok := originalByProduct[it.ProductID]; !ok {
			originalByProduct[it.ProductID] = it
		}
	}

	for _, item := range in.Items {
		original, ok := originalByProduct[item.ProductID]
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if item.Quantity > original.Quantity {
			return nil, &domain.ExcessReturnError{
				ProductID: item.ProductID,
				Original:  original.Quantity,
				Requested: item.Quantity,
			}
		}
	}

	now := time.Now()
	returnNumber := uc.seq.Next(entity.PrefixReturn)
	var totalIQD, totalUSD decimal.Decimal

	err = uc.txRunner.RunBilling(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.PurchaseInvoiceRepository,
		_ repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error {
		for _, item := range in.Items {
			original := originalByProduct[item.ProductID]
			if err := uc.ledger.ApplyMovementInTx(movRepo, productRepo, inventory.MovementInput{
				ProductID:   item.ProductID,
				Kind:        entity.MovementReturn,
				Quantity:    item.Quantity,
				ReferenceID: returnNumber,
				Notes:       in.Notes,
				ActorID:     actorID,
				Now:         now,
			}); err != nil {
				return err
			}
			qty := decimal.NewFromInt(item.Quantity)
			totalIQD = totalIQD.Add(qty.Mul(original.UnitPriceIQD))
			totalUSD = totalUSD.Add(qty.Mul(original.UnitPriceUSD))
		}

		return txLogRepo.Create(&entity.Transaction{
			ID:            uuid.New().String(),
			Type:          entity.TransactionExpense,
			AmountIQD:     totalIQD,
			AmountUSD:     totalUSD,
			Date:          now,
			Description:   fmt.Sprintf("Sales Return %s for Invoice %s", returnNumber, inv.InvoiceNumber),
			ReferenceType: entity.ReferenceSalesReturn,
			ReferenceID:   inv.ID,
			CreatedBy:     actorID,
			CreatedAt:     now,
		})
	})
	if err != nil {
		return nil, err
	}

	return &dto.SalesReturnResponse{
		ReturnNumber:   returnNumber,
		InvoiceNumber:  inv.InvoiceNumber,
		TotalAmountIQD: totalIQD,
		TotalAmountUSD: totalUSD,
	}, nil
}

// DeleteSalesInvoice reverses a sale: stock is restored and movements removed
// (most-recent-movement guard per product), then the transaction row, items,
// and header are deleted atomically.
func (uc *SalesUseCase) DeleteSalesInvoice(ctx context.Context, id string) error {
	inv, err := uc.salesRepo.GetByID(id)
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
		_ repository.PurchaseInvoiceRepository,
		salesRepo repository.SalesInvoiceRepository,
		txLogRepo repository.TransactionRepository,
	) error {
		if err := uc.ledger.ReverseMovementsInTx(movRepo, productRepo, inv.InvoiceNumber, now); err != nil {
			return err
		}
		if err := txLogRepo.DeleteByReference(entity.ReferenceSalesInvoice, inv.ID); err != nil {
			return err
		}
		if err := salesRepo.DeleteItems(inv.ID); err != nil {
			return err
		}
		return salesRepo.Delete(inv.ID)
	})
}

// GetSalesInvoice returns one invoice with its lines.
func (uc *SalesUseCase) GetSalesInvoice(ctx context.Context, id string) (*dto.SalesInvoiceResponse, error) {
	inv, err := uc.salesRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.salesRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return toSalesResponse(inv, customerName, items), nil
}

// ListSalesInvoices lists invoice headers, optionally for one customer.
func (uc *SalesUseCase) ListSalesInvoices(ctx context.Context, customerID string, limit, offset int) ([]*dto.SalesInvoiceResponse, error) {
	var (
		invoices []*entity.SalesInvoice
		err      error
	)
	if customerID != "" {
		invoices, err = uc.salesRepo.ListByCustomer(customerID, limit, offset)
	} else {
		invoices, err = uc.salesRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalesInvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toSalesResponse(inv, "", nil))
	}
	return out, nil
}

func toSalesResponse(inv *entity.SalesInvoice, customerName string, items []*entity.SalesInvoiceItem) *dto.SalesInvoiceResponse {
	resp := &dto.SalesInvoiceResponse{
		ID:             inv.ID,
		InvoiceNumber:  inv.InvoiceNumber,
		CustomerID:     inv.CustomerID,
		CustomerName:   customerName,
		Date:           inv.Date,
		SubtotalIQD:    inv.SubtotalIQD,
		SubtotalUSD:    inv.SubtotalUSD,
		DiscountIQD:    inv.DiscountIQD,
		TotalAmountIQD: inv.TotalAmountIQD,
		TotalAmountUSD: inv.TotalAmountUSD,
		PaymentMethod:  inv.PaymentMethod,
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
