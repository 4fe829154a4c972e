package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is an effective-dated USD→IQD rate. History is retained; the
// current rate is the row with the latest effective date.
type ExchangeRate struct {
	ID            string
	USDToIQD      decimal.Decimal // must be > 0
	EffectiveDate time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
