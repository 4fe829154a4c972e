// Package currency implements dual-currency (USD/IQD) conversion over a rate
// snapshot captured once per ledger operation, so every line of one invoice
// is priced with the same rate.
package currency

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// Snapshot is an immutable view of the USD→IQD rate at the start of an
// operation. It is passed into the operation instead of being read from
// ambient state, so concurrent operations with different rates stay
// reproducible.
type Snapshot struct {
	USDToIQD      decimal.Decimal
	EffectiveDate time.Time
}

// LoadSnapshot fetches the latest effective rate. Returns
// domain.ErrNoExchangeRate when no usable rate exists; callers must abort
// before any write.
func LoadSnapshot(rates repository.ExchangeRateRepository) (Snapshot, error) {
	rate, err := rates.Latest()
	if err != nil {
		return Snapshot{}, err
	}
	if rate == nil || !rate.USDToIQD.IsPositive() {
		return Snapshot{}, domain.ErrNoExchangeRate
	}
	return Snapshot{USDToIQD: rate.USDToIQD, EffectiveDate: rate.EffectiveDate}, nil
}

// ToUSD converts an IQD amount using the snapshot rate.
func (s Snapshot) ToUSD(amountIQD decimal.Decimal) decimal.Decimal {
	return amountIQD.DivRound(s.USDToIQD, 4)
}

// ToIQD converts a USD amount using the snapshot rate.
func (s Snapshot) ToIQD(amountUSD decimal.Decimal) decimal.Decimal {
	return amountUSD.Mul(s.USDToIQD)
}
