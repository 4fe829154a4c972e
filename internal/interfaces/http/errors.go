package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
)

// respondError maps domain errors to HTTP status codes and the uniform error
// payload. Stock and return errors carry their quantities so clients can show
// available vs requested.
func respondError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficient.Error(),
			ProductID: insufficient.ProductID,
			Available: &insufficient.Available,
			Requested: &insufficient.Requested,
		})
	}
	var stale *domain.StaleReversalError
	if errors.As(err, &stale) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "STALE_REVERSAL",
			Message:   stale.Error(),
			ProductID: stale.ProductID,
		})
	}
	var excess *domain.ExcessReturnError
	if errors.As(err, &excess) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:      "EXCESS_RETURN",
			Message:   excess.Error(),
			ProductID: excess.ProductID,
			Available: &excess.Original,
			Requested: &excess.Requested,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid input"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "resource not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "invalid credentials"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "access denied"})
	case errors.Is(err, domain.ErrUsernameAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "USERNAME_TAKEN", Message: "username already registered"})
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_INVOICE", Message: "invoice number already exists"})
	case errors.Is(err, domain.ErrNoExchangeRate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_EXCHANGE_RATE", Message: "no exchange rate configured"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "malformed request body"})
}
