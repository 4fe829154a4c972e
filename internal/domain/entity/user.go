package entity

import "time"

// Valid user roles.
const (
	RoleAdmin     = "admin"
	RoleSales     = "sales"
	RoleInventory = "inventory"
)

// User is an authenticated actor. Every mutating ledger operation records the
// acting user's ID in created_by columns.
type User struct {
	ID           string
	Username     string // unique
	Email        string
	PasswordHash string // bcrypt hash, never plaintext past registration
	FullName     string
	Role         string // admin, sales, inventory
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
