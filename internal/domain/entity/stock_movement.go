package entity

import "time"

// Stock movement kinds. Quantity is always positive; the kind implies the
// direction of the stock change.
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementDamage     = "damage"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
)

// MovementIncreasesStock reports whether a movement kind adds units to stock.
func MovementIncreasesStock(kind string) bool {
	return kind == MovementPurchase || kind == MovementReturn
}

// ValidMovementKind reports whether kind is one of the five movement kinds.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementPurchase, MovementSale, MovementDamage, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// StockMovement is an append-only audit record of a single stock change.
// Rows are never mutated; they are deleted only as part of the compensating
// invoice-reversal procedure.
type StockMovement struct {
	ID          string
	ProductID   string
	Kind        string
	Quantity    int64  // positive; direction implied by Kind
	ReferenceID string // invoice number or adjustment tag
	Notes       string
	CreatedBy   string // user ID
	CreatedAt   time.Time
}
