package billing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
)

func TestCreatePurchaseInvoice_CommitsAllSideEffects(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)

	resp, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items: []dto.InvoiceItemRequest{
			{ProductID: "p1", Quantity: 10, UnitPriceIQD: d("1200"), UnitPriceUSD: d("0.8")},
			{ProductID: "p2", Quantity: 4, UnitPriceIQD: d("6000"), UnitPriceUSD: d("4")},
		},
		Notes: "restock",
	})
	require.NoError(t, err)

	// Response: number, supplier, both currency totals.
	assert.True(t, strings.HasPrefix(resp.InvoiceNumber, "PUR-"))
	assert.Equal(t, "Al-Noor Trading", resp.SupplierName)
	assert.True(t, resp.TotalAmountIQD.Equal(d("36000")), "10*1200 + 4*6000, got %s", resp.TotalAmountIQD)
	assert.True(t, resp.TotalAmountUSD.Equal(d("24")), "10*0.8 + 4*4, got %s", resp.TotalAmountUSD)
	require.Len(t, resp.Items, 2)

	// Stock booked in.
	assert.Equal(t, int64(110), w.products["p1"].CurrentStock)
	assert.Equal(t, int64(54), w.products["p2"].CurrentStock)

	// One purchase movement per line under the invoice number.
	require.Len(t, w.movements, 2)
	for _, m := range w.movements {
		assert.Equal(t, entity.MovementPurchase, m.Kind)
		assert.Equal(t, resp.InvoiceNumber, m.ReferenceID)
		assert.Equal(t, "u1", m.CreatedBy)
	}

	// Exactly one expense transaction mirroring the invoice.
	require.Len(t, w.transactions, 1)
	tx := w.transactions[0]
	assert.Equal(t, entity.TransactionExpense, tx.Type)
	assert.True(t, tx.AmountIQD.Equal(d("36000")))
	assert.True(t, tx.AmountUSD.Equal(d("24")))
	assert.Equal(t, entity.ReferencePurchaseInvoice, tx.ReferenceType)
	assert.Equal(t, resp.ID, tx.ReferenceID)

	// Header persisted with totals.
	stored := w.purchases[resp.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.TotalAmountIQD.Equal(d("36000")))
}

func TestCreatePurchaseInvoice_DerivesMissingCurrencySide(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)

	resp, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items: []dto.InvoiceItemRequest{
			// Only the USD side is entered; IQD derives from the 1500 rate.
			{ProductID: "p1", Quantity: 2, UnitPriceUSD: d("3")},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPriceIQD.Equal(d("4500")), "3 USD at 1500, got %s", resp.Items[0].UnitPriceIQD)
	assert.True(t, resp.TotalAmountIQD.Equal(d("9000")))
}

func TestCreatePurchaseInvoice_NoPricesFallBackToCatalog(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)

	resp, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p2", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmountIQD.Equal(d("22500")), "3 * catalog 7500, got %s", resp.TotalAmountIQD)
	assert.True(t, resp.TotalAmountUSD.Equal(d("15")))
}

func TestCreatePurchaseInvoice_ValidationFailures(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)
	ctx := context.Background()

	_, err := uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{SupplierID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "empty item list")

	_, err = uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "ghost",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown supplier")

	_, err = uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "ghost", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "unknown product")

	_, err = uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "zero quantity")

	assert.Empty(t, w.purchases, "nothing may be written on validation failure")
	assert.Empty(t, w.movements)
	assert.Empty(t, w.transactions)
}

func TestCreatePurchaseInvoice_NoExchangeRateAbortsBeforeWrites(t *testing.T) {
	w := seededWorld()
	w.rates = nil
	uc := newPurchaseUC(w)

	_, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNoExchangeRate)
	assert.Empty(t, w.purchases)
	assert.Equal(t, int64(100), w.products["p1"].CurrentStock)
}

func TestCreatePurchaseInvoice_FailedCommitLeavesNothingBehind(t *testing.T) {
	w := seededWorld()
	w.failTransactionCreate = true
	uc := newPurchaseUC(w)

	_, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 10}},
	})
	require.Error(t, err)

	// Header, items, and movements were written inside the tx; the rollback
	// must erase all of them and restore the stock.
	assert.Empty(t, w.purchases)
	assert.Empty(t, w.purchaseItems)
	assert.Empty(t, w.movements)
	assert.Equal(t, int64(100), w.products["p1"].CurrentStock)
}

func TestDeletePurchaseInvoice_ReversesEverything(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)

	resp, err := uc.CreatePurchaseInvoice(context.Background(), "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(110), w.products["p1"].CurrentStock)

	require.NoError(t, uc.DeletePurchaseInvoice(context.Background(), resp.ID))

	assert.Equal(t, int64(100), w.products["p1"].CurrentStock, "stock must be restored")
	assert.Empty(t, w.movements, "invoice movements must be removed")
	assert.Empty(t, w.transactions, "the expense transaction must be removed")
	assert.Empty(t, w.purchases)
	assert.Empty(t, w.purchaseItems)
}

func TestDeletePurchaseInvoice_BlockedByNewerMovement(t *testing.T) {
	w := seededWorld()
	uc := newPurchaseUC(w)
	salesUC := newSalesUC(w)
	ctx := context.Background()

	resp, err := uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 10}},
	})
	require.NoError(t, err)

	// A later sale of the same product makes the purchase non-reversible.
	_, err = salesUC.CreateSalesInvoice(ctx, "u1", dto.CreateSalesInvoiceRequest{
		CustomerID: "c1",
		Items:      []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 5}},
	})
	require.NoError(t, err)

	err = uc.DeletePurchaseInvoice(ctx, resp.ID)

	var sre *domain.StaleReversalError
	require.ErrorAs(t, err, &sre)
	assert.Equal(t, "p1", sre.ProductID)

	// The blocked delete must leave the purchase fully intact.
	assert.Contains(t, w.purchases, resp.ID)
	assert.Equal(t, int64(105), w.products["p1"].CurrentStock)
	assert.Len(t, w.transactions, 2)
}

func TestDeletePurchaseInvoice_UnknownID(t *testing.T) {
	uc := newPurchaseUC(seededWorld())
	err := uc.DeletePurchaseInvoice(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPurchaseInvoices_BySupplier(t *testing.T) {
	w := seededWorld()
	w.suppliers["s2"] = &entity.Supplier{ID: "s2", Name: "Basra Wholesale"}
	uc := newPurchaseUC(w)
	ctx := context.Background()

	_, err := uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s1", Items: []dto.InvoiceItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = uc.CreatePurchaseInvoice(ctx, "u1", dto.CreatePurchaseInvoiceRequest{
		SupplierID: "s2", Items: []dto.InvoiceItemRequest{{ProductID: "p2", Quantity: 1}},
	})
	require.NoError(t, err)

	all, err := uc.ListPurchaseInvoices(ctx, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := uc.ListPurchaseInvoices(ctx, "s2", 50, 0)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "s2", one[0].SupplierID)
}
