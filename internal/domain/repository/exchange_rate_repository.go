package repository

import "github.com/hasanq/muhasaba/internal/domain/entity"

// ExchangeRateRepository is the persistence port for effective-dated USD→IQD
// rates. Latest returns the row with the most recent effective date, or nil
// when none exists.
type ExchangeRateRepository interface {
	Create(rate *entity.ExchangeRate) error
	Latest() (*entity.ExchangeRate, error)
	List(limit, offset int) ([]*entity.ExchangeRate, error)
}
