package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/application/dto"
)

// PurchaseHandler handles purchase invoice endpoints.
type PurchaseHandler struct {
	uc *billing.PurchaseUseCase
}

// NewPurchaseHandler builds the handler.
func NewPurchaseHandler(uc *billing.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Create commits a purchase invoice and books stock in.
// POST /api/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.CreatePurchaseInvoice(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID returns one purchase invoice with its lines.
// GET /api/purchases/:id
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.GetPurchaseInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// List pages through purchase invoice headers.
// GET /api/purchases?supplier_id=&limit=&offset=
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.ListPurchaseInvoices(c.Context(), c.Query("supplier_id"), queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// Delete reverses a purchase invoice: stock comes back out, the transaction
// log entry is removed, then lines and header are deleted.
// DELETE /api/purchases/:id
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeletePurchaseInvoice(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "purchase invoice deleted"})
}
