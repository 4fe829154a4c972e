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

// ProductUseCase covers the product catalog. Stock is never set here; it only
// changes through the inventory ledger.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create registers a product with zero stock. SKUs are unique.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.PriceIQD.IsNegative() || in.PriceUSD.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             in.SKU,
		Name:            in.Name,
		Description:     in.Description,
		PriceIQD:        in.PriceIQD,
		PriceUSD:        in.PriceUSD,
		CurrentStock:    0,
		LastStockUpdate: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Get returns one product.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List pages through the catalog.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update changes catalog fields (name, description, prices). Existing invoice
// lines keep the prices they were created with; SKU changes must not collide.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || in.PriceIQD.IsNegative() || in.PriceUSD.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != product.SKU {
		other, err := uc.productRepo.GetBySKU(in.SKU)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrInvalidInput
		}
	}

	product.SKU = in.SKU
	product.Name = in.Name
	product.Description = in.Description
	product.PriceIQD = in.PriceIQD
	product.PriceUSD = in.PriceUSD
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// SetImageURL stores the uploaded image's public URL on the product.
func (uc *ProductUseCase) SetImageURL(ctx context.Context, id, imageURL string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.productRepo.UpdateImageURL(id, imageURL)
}

// Delete removes a product that no movement or invoice line references.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.productRepo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrInvalidInput
	}
	return uc.productRepo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Description:     p.Description,
		PriceIQD:        p.PriceIQD,
		PriceUSD:        p.PriceUSD,
		ImageURL:        p.ImageURL,
		CurrentStock:    p.CurrentStock,
		LastStockUpdate: p.LastStockUpdate,
		CreatedAt:       p.CreatedAt,
	}
}
