package http

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/application/usecase"
)

// ProductHandler handles the product catalog endpoints.
type ProductHandler struct {
	uc         *usecase.ProductUseCase
	uploadsDir string
}

// NewProductHandler builds the handler. uploadsDir receives product images.
func NewProductHandler(uc *usecase.ProductUseCase, uploadsDir string) *ProductHandler {
	return &ProductHandler{uc: uc, uploadsDir: uploadsDir}
}

// Create registers a product.
// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// GetByID returns one product.
// GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	product, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// List pages through the catalog.
// GET /api/products?limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.List(c.Context(), queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// Update changes catalog fields.
// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// UploadImage stores a product image and records its public URL.
// POST /api/products/:id/image (multipart field "image")
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id := c.Params("id")
	file, err := c.FormFile("image")
	if err != nil {
		return badBody(c)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "unsupported image type"})
	}

	name := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(h.uploadsDir, name)); err != nil {
		return respondError(c, fmt.Errorf("save image: %w", err))
	}
	imageURL := "/uploads/" + name
	if err := h.uc.SetImageURL(c.Context(), id, imageURL); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"image_url": imageURL})
}

// Delete removes an unreferenced product.
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "product deleted"})
}

// queryLimit returns the limit query param capped to sane bounds.
func queryLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return limit
}
