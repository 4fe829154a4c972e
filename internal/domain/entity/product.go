package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a stocked SKU. Prices are carried in both currencies;
// CurrentStock is the single source of truth for on-hand quantity and only
// changes together with a StockMovement record.
type Product struct {
	ID              string
	SKU             string // unique
	Name            string
	Description     string
	PriceIQD        decimal.Decimal
	PriceUSD        decimal.Decimal
	ImageURL        string
	CurrentStock    int64 // never negative
	LastStockUpdate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
