package dto

import "time"

// RegisterMovementRequest payload for POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID   string `json:"product_id"`
	Kind        string `json:"movement_type"` // purchase, sale, damage, adjustment, return
	Quantity    int64  `json:"quantity"`
	ReferenceID string `json:"reference_id"`
	Notes       string `json:"notes"`
}

// AdjustStockRequest payload for POST /api/inventory/adjust-stock/:id.
type AdjustStockRequest struct {
	Quantity int64  `json:"quantity"` // absolute new stock level
	Notes    string `json:"notes"`
}

// AdjustStockResponse result of a manual adjustment.
type AdjustStockResponse struct {
	Message  string `json:"message"`
	NewStock int64  `json:"new_stock"`
}

// MovementResponse stock movement as exposed by the API.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Kind        string    `json:"movement_type"`
	Quantity    int64     `json:"quantity"`
	ReferenceID string    `json:"reference_id"`
	Notes       string    `json:"notes,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
