package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest payload for POST /api/exchange-rates.
type CreateExchangeRateRequest struct {
	USDToIQD      decimal.Decimal `json:"usd_to_iqd_rate"`
	EffectiveDate *time.Time      `json:"effective_date,omitempty"`
}

// ExchangeRateResponse exchange rate as exposed by the API.
type ExchangeRateResponse struct {
	ID            string          `json:"id"`
	USDToIQD      decimal.Decimal `json:"usd_to_iqd_rate"`
	EffectiveDate time.Time       `json:"effective_date"`
	CreatedAt     time.Time       `json:"created_at"`
}
