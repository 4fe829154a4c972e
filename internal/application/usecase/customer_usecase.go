package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hasanq/muhasaba/internal/application/dto"
	"github.com/hasanq/muhasaba/internal/domain"
	"github.com/hasanq/muhasaba/internal/domain/entity"
	"github.com/hasanq/muhasaba/internal/domain/repository"
)

// CustomerUseCase covers the customer directory. A customer with sales
// invoices cannot be deleted.
type CustomerUseCase struct {
	customerRepo repository.CustomerRepository
	reportRepo   repository.ReportRepository
}

func NewCustomerUseCase(customerRepo repository.CustomerRepository, reportRepo repository.ReportRepository) *CustomerUseCase {
	return &CustomerUseCase{customerRepo: customerRepo, reportRepo: reportRepo}
}

func (uc *CustomerUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.PartyResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

func (uc *CustomerUseCase) List(ctx context.Context, limit, offset int) ([]*dto.PartyResponse, error) {
	customers, err := uc.customerRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	customer.Name = in.Name
	customer.Phone = in.Phone
	customer.Email = in.Email
	customer.Address = in.Address
	customer.Notes = in.Notes
	customer.UpdatedAt = time.Now()
	if err := uc.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	has, err := uc.customerRepo.HasInvoices(id)
	if err != nil {
		return err
	}
	if has {
		return domain.ErrInvalidInput
	}
	return uc.customerRepo.Delete(id)
}

// Statistics returns lifetime invoice count and totals for one customer.
func (uc *CustomerUseCase) Statistics(ctx context.Context, id string) (*dto.PartyTotalResponse, error) {
	customer, err := uc.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	totals, err := uc.reportRepo.CustomerTotals(id)
	if err != nil {
		return nil, err
	}
	return &dto.PartyTotalResponse{
		PartyID:      id,
		PartyName:    customer.Name,
		InvoiceCount: totals.InvoiceCount,
		TotalIQD:     totals.TotalIQD,
		TotalUSD:     totals.TotalUSD,
	}, nil
}

func toCustomerResponse(c *entity.Customer) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
	}
}
