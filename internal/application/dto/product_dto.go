package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest payload for POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceIQD    decimal.Decimal `json:"price_iqd"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
}

// ProductResponse product as exposed by the API.
type ProductResponse struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	PriceIQD        decimal.Decimal `json:"price_iqd"`
	PriceUSD        decimal.Decimal `json:"price_usd"`
	ImageURL        string          `json:"image_url,omitempty"`
	CurrentStock    int64           `json:"current_stock"`
	LastStockUpdate time.Time       `json:"last_stock_update"`
	CreatedAt       time.Time       `json:"created_at"`
}
