package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/billing"
	"github.com/hasanq/muhasaba/internal/application/dto"
)

// SalesHandler handles sales invoice and return endpoints.
type SalesHandler struct {
	uc *billing.SalesUseCase
}

// NewSalesHandler builds the handler.
func NewSalesHandler(uc *billing.SalesUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Create commits a sales invoice and books stock out. A single line with
// insufficient stock rejects the whole invoice.
// POST /api/sales
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	invoice, err := h.uc.CreateSalesInvoice(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// GetByID returns one sales invoice with its lines.
// GET /api/sales/:id
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	invoice, err := h.uc.GetSalesInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoice)
}

// List pages through sales invoice headers.
// GET /api/sales?customer_id=&limit=&offset=
func (h *SalesHandler) List(c *fiber.Ctx) error {
	invoices, err := h.uc.ListSalesInvoices(c.Context(), c.Query("customer_id"), queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

// Return processes a partial return against a committed invoice. The original
// invoice is left untouched; stock is booked back in under a new reference.
// POST /api/sales/return/:id
func (h *SalesHandler) Return(c *fiber.Ctx) error {
	var in dto.CreateSalesReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	receipt, err := h.uc.CreateSalesReturn(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// Delete reverses a sales invoice: sold stock is restored, the transaction
// log entry is removed, then lines and header are deleted.
// DELETE /api/sales/:id
func (h *SalesHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteSalesInvoice(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "sales invoice deleted"})
}
