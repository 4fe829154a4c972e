package usecase

import (
	"context"
	"time"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// TransactionUseCase reads the financial transaction log. The log is written
// exclusively by the invoice use cases; there is no create endpoint.
type TransactionUseCase struct {
	txLogRepo repository.TransactionRepository
}

func NewTransactionUseCase(txLogRepo repository.TransactionRepository) *TransactionUseCase {
	return &TransactionUseCase{txLogRepo: txLogRepo}
}

// List pages through log entries between from and to (inclusive).
func (uc *TransactionUseCase) List(ctx context.Context, from, to time.Time, limit, offset int) ([]dto.TransactionResponse, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.txLogRepo.ListByDateRange(from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.TransactionResponse{
			ID:            e.ID,
			Type:          e.Type,
			AmountIQD:     e.AmountIQD,
			AmountUSD:     e.AmountUSD,
			Date:          e.Date,
			Description:   e.Description,
			ReferenceType: e.ReferenceType,
			ReferenceID:   e.ReferenceID,
			CreatedBy:     e.CreatedBy,
		})
	}
	return out, nil
}
