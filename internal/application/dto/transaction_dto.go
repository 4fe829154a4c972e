package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse one entry of the financial transaction log.
type TransactionResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	AmountIQD     decimal.Decimal `json:"amount_iqd"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	CreatedBy     string          `json:"created_by"`
}
