package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implements the append-only transaction log over PostgreSQL
// (usable with pool or tx). No update statement exists on purpose.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository builds the persistence adapter. Pass pool or tx.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, type, amount_iqd, amount_usd, date, description, reference_type, reference_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.Type, tx.AmountIQD, tx.AmountUSD, tx.Date, tx.Description,
		tx.ReferenceType, tx.ReferenceID, nullIfEmpty(tx.CreatedBy), tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) ListByDateRange(from, to time.Time, limit, offset int) ([]*entity.Transaction, error) {
	query := `
		SELECT id, type, amount_iqd, amount_usd, date, description, reference_type, reference_id, created_by, created_at
		FROM transactions WHERE date >= $1 AND date <= $2
		ORDER BY date DESC, created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		var t entity.Transaction
		var createdBy *string
		if err := rows.Scan(&t.ID, &t.Type, &t.AmountIQD, &t.AmountUSD, &t.Date,
			&t.Description, &t.ReferenceType, &t.ReferenceID, &createdBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if createdBy != nil {
			t.CreatedBy = *createdBy
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// DeleteByReference removes the log entries of a deleted invoice. The only
// sanctioned deletion on this table.
func (r *TransactionRepo) DeleteByReference(referenceType, referenceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM transactions WHERE reference_type = $1 AND reference_id = $2`,
		referenceType, referenceID,
	)
	if err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	return nil
}
