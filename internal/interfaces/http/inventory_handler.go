package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/application/inventory"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// InventoryHandler handles stock movement and adjustment endpoints.
type InventoryHandler struct {
	ledger *inventory.Ledger
}

// NewInventoryHandler builds the handler.
func NewInventoryHandler(ledger *inventory.Ledger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement records a manual stock movement.
// POST /api/inventory/movements
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	err := h.ledger.RegisterMovement(c.Context(), inventory.MovementInput{
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
		ActorID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "movement registered"})
}

// AdjustStock sets a product's stock to an absolute quantity and records the
// delta as an adjustment movement.
// POST /api/inventory/adjust-stock/:id
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	newStock, err := h.ledger.SetStock(c.Context(), c.Params("id"), in.Quantity, in.Notes, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{Message: "stock adjusted", NewStock: newStock})
}

// CurrentStock returns the on-hand quantity for one product.
// GET /api/inventory/stock/:id
func (h *InventoryHandler) CurrentStock(c *fiber.Ctx) error {
	stock, err := h.ledger.CurrentStock(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": c.Params("id"), "current_stock": stock})
}

// History lists one product's movements.
// GET /api/inventory/history/:id?from=&to=&limit=&offset=
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	from, to, err := queryDateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.History(c.Context(), c.Params("id"), from, to, queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// Movements lists movements across products with optional filters.
// GET /api/inventory/movements?from=&to=&product_id=&movement_type=&limit=&offset=
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, to, err := queryDateRange(c)
	if err != nil {
		return respondError(c, err)
	}
	movements, err := h.ledger.Movements(c.Context(), from, to,
		c.Query("product_id"), c.Query("movement_type"), queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(movements))
}

// LowStock lists products at or below the threshold.
// GET /api/inventory/low-stock?threshold=
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("threshold", 10))
	products, err := h.ledger.LowStock(c.Context(), threshold)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		out = append(out, fiber.Map{
			"product_id":    p.ID,
			"sku":           p.SKU,
			"name":          p.Name,
			"current_stock": p.CurrentStock,
		})
	}
	return c.JSON(out)
}

func toMovementResponses(movements []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:          m.ID,
			ProductID:   m.ProductID,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			ReferenceID: m.ReferenceID,
			Notes:       m.Notes,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}

// queryDateRange parses optional from/to query params (RFC 3339 or
// YYYY-MM-DD).
func queryDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return &t, nil
		}
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		return &t, nil
	}
	from, err := parse(c.Query("from"))
	if err != nil {
		return nil, nil, err
	}
	to, err := parse(c.Query("to"))
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
