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

// SupplierUseCase covers the supplier directory. A supplier with purchase
// invoices cannot be deleted.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
	reportRepo   repository.ReportRepository
}

func NewSupplierUseCase(supplierRepo repository.SupplierRepository, reportRepo repository.ReportRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo, reportRepo: reportRepo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		Address:   in.Address,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

func (uc *SupplierUseCase) Get(ctx context.Context, id string) (*dto.PartyResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(supplier), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) ([]*dto.PartyResponse, error) {
	suppliers, err := uc.supplierRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	supplier.Name = in.Name
	supplier.Phone = in.Phone
	supplier.Email = in.Email
	supplier.Address = in.Address
	supplier.Notes = in.Notes
	supplier.UpdatedAt = time.Now()
	if err := uc.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	has, err := uc.supplierRepo.HasInvoices(id)
	if err != nil {
		return err
	}
	if has {
		return domain.ErrInvalidInput
	}
	return uc.supplierRepo.Delete(id)
}

// Statistics returns lifetime invoice count and totals for one supplier.
func (uc *SupplierUseCase) Statistics(ctx context.Context, id string) (*dto.PartyTotalResponse, error) {
	supplier, err := uc.supplierRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	totals, err := uc.reportRepo.SupplierTotals(id)
	if err != nil {
		return nil, err
	}
	return &dto.PartyTotalResponse{
		PartyID:      id,
		PartyName:    supplier.Name,
		InvoiceCount: totals.InvoiceCount,
		TotalIQD:     totals.TotalIQD,
		TotalUSD:     totals.TotalUSD,
	}, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		Address:   s.Address,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}
