package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo implements ExchangeRateRepository over PostgreSQL.
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository builds the persistence adapter. Pass pool or tx.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

func (r *ExchangeRateRepo) Create(rate *entity.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (id, usd_to_iqd, effective_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		rate.ID, rate.USDToIQD, rate.EffectiveDate, rate.CreatedAt, rate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

// Latest returns the rate with the most recent effective date, nil when the
// table is empty.
func (r *ExchangeRateRepo) Latest() (*entity.ExchangeRate, error) {
	query := `
		SELECT id, usd_to_iqd, effective_date, created_at, updated_at
		FROM exchange_rates ORDER BY effective_date DESC, created_at DESC LIMIT 1`
	var rate entity.ExchangeRate
	err := r.q.QueryRow(context.Background(), query).Scan(
		&rate.ID, &rate.USDToIQD, &rate.EffectiveDate, &rate.CreatedAt, &rate.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest exchange rate: %w", err)
	}
	return &rate, nil
}

func (r *ExchangeRateRepo) List(limit, offset int) ([]*entity.ExchangeRate, error) {
	query := `
		SELECT id, usd_to_iqd, effective_date, created_at, updated_at
		FROM exchange_rates ORDER BY effective_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExchangeRate
	for rows.Next() {
		var rate entity.ExchangeRate
		if err := rows.Scan(&rate.ID, &rate.USDToIQD, &rate.EffectiveDate, &rate.CreatedAt, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		list = append(list, &rate)
	}
	return list, rows.Err()
}
