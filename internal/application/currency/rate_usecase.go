package currency

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// RateUseCase manages the effective-dated exchange rate history.
type RateUseCase struct {
	rates repository.ExchangeRateRepository
}

// NewRateUseCase builds the use case.
func NewRateUseCase(rates repository.ExchangeRateRepository) *RateUseCase {
	return &RateUseCase{rates: rates}
}

// CreateRate records a new USD→IQD rate. A zero effectiveDate means "now".
func (uc *RateUseCase) CreateRate(usdToIQD decimal.Decimal, effectiveDate time.Time) (*entity.ExchangeRate, error) {
	if !usdToIQD.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	if effectiveDate.IsZero() {
		effectiveDate = now
	}
	rate := &entity.ExchangeRate{
		ID:            uuid.New().String(),
		USDToIQD:      usdToIQD,
		EffectiveDate: effectiveDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.rates.Create(rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// CurrentRate returns the rate with the latest effective date.
func (uc *RateUseCase) CurrentRate() (*entity.ExchangeRate, error) {
	rate, err := uc.rates.Latest()
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, domain.ErrNoExchangeRate
	}
	return rate, nil
}

// History lists rates, newest first.
func (uc *RateUseCase) History(limit, offset int) ([]*entity.ExchangeRate, error) {
	return uc.rates.List(limit, offset)
}
