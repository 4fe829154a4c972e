package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/infrastructure/pdf"
)

// DocumentHandler serves printable PDF renditions of invoices.
type DocumentHandler struct {
	purchaseUC *billing.PurchaseUseCase
	salesUC    *billing.SalesUseCase
	generator  *pdf.Generator
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(purchaseUC *billing.PurchaseUseCase, salesUC *billing.SalesUseCase, generator *pdf.Generator) *DocumentHandler {
	return &DocumentHandler{purchaseUC: purchaseUC, salesUC: salesUC, generator: generator}
}

// SalesInvoicePDF renders one sales invoice as PDF.
// GET /api/sales/:id/pdf
func (h *DocumentHandler) SalesInvoicePDF(c *fiber.Ctx) error {
	invoice, err := h.salesUC.GetSalesInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.generator.SalesInvoicePDF(invoice)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", invoice.InvoiceNumber+".pdf"))
	return c.Send(data)
}

// PurchaseInvoicePDF renders one purchase invoice as PDF.
// GET /api/purchases/:id/pdf
func (h *DocumentHandler) PurchaseInvoicePDF(c *fiber.Ctx) error {
	invoice, err := h.purchaseUC.GetPurchaseInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.generator.PurchaseInvoicePDF(invoice)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", invoice.InvoiceNumber+".pdf"))
	return c.Send(data)
}
