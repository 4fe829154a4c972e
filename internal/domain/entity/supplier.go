package entity

import "time"

// Supplier is a purchase counterparty.
type Supplier struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
