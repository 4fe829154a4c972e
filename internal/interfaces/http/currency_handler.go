package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hasanq/muhasaba/internal/application/currency"
	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain/entity"
)

// CurrencyHandler handles the exchange rate endpoints.
type CurrencyHandler struct {
	uc *currency.RateUseCase
}

// NewCurrencyHandler builds the handler.
func NewCurrencyHandler(uc *currency.RateUseCase) *CurrencyHandler {
	return &CurrencyHandler{uc: uc}
}

// Create records a new USD to IQD rate.
// POST /api/exchange-rates
func (h *CurrencyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExchangeRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var effective time.Time
	if in.EffectiveDate != nil {
		effective = *in.EffectiveDate
	}
	rate, err := h.uc.CreateRate(in.USDToIQD, effective)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRateResponse(rate))
}

// Current returns the active rate.
// GET /api/exchange-rates/current
func (h *CurrencyHandler) Current(c *fiber.Ctx) error {
	rate, err := h.uc.CurrentRate()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toRateResponse(rate))
}

// History lists rates, newest first.
// GET /api/exchange-rates?limit=&offset=
func (h *CurrencyHandler) History(c *fiber.Ctx) error {
	rates, err := h.uc.History(queryLimit(c), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ExchangeRateResponse, 0, len(rates))
	for _, r := range rates {
		out = append(out, *toRateResponse(r))
	}
	return c.JSON(out)
}

func toRateResponse(r *entity.ExchangeRate) *dto.ExchangeRateResponse {
	return &dto.ExchangeRateResponse{
		ID:            r.ID,
		USDToIQD:      r.USDToIQD,
		EffectiveDate: r.EffectiveDate,
		CreatedAt:     r.CreatedAt,
	}
}
