package service

import (
	"context"
	"errors"
	"strings"

	"stockctl/internal/apierror"
	"stockctl/internal/dto"
	"stockctl/internal/model"
	"stockctl/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// PriceBySKU backs the public price check endpoint.
	PriceBySKU(ctx context.Context, sku string) (*dto.PriceCheckResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// normalizeSKU is applied to every SKU on the way in, so "rice-1kg " and
// "RICE-1KG" are the same product code.
func normalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := normalizeSKU(req.SKU)
	if sku == "" {
		return nil, apierror.Validationf("SKU is required")
	}
	if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
		return nil, apierror.Validationf("SKU already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "unit"
	}

	p := model.Product{
		Name:         strings.TrimSpace(req.Name),
		SKU:          sku,
		Unit:         unit,
		Price:        req.Price.Round(2),
		CostPrice:    req.CostPrice.Round(2),
		StockQty:     req.StockQty,
		ReorderLevel: req.ReorderLevel,
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	resp := productToResponse(&p)
	return &resp, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Product %s not found", id)
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) ListProducts(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.SKU != "" {
		filter.SKU = normalizeSKU(filter.SKU)
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFoundf("Product %s not found", id)
	}

	if req.SKU != nil {
		sku := normalizeSKU(*req.SKU)
		if sku == "" {
			return nil, apierror.Validationf("SKU is required")
		}
		if sku != p.SKU {
			if _, err := s.repo.FindBySKU(ctx, sku); err == nil {
				return nil, apierror.Validationf("SKU already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			p.SKU = sku
		}
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Unit != nil {
		p.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.Price != nil {
		p.Price = req.Price.Round(2)
	}
	if req.CostPrice != nil {
		p.CostPrice = req.CostPrice.Round(2)
	}
	if req.StockQty != nil {
		if req.StockQty.IsNegative() {
			return nil, apierror.Validationf("Stock quantity cannot be negative")
		}
		p.StockQty = *req.StockQty
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := productToResponse(p)
	return &resp, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFoundf("Product %s not found", id)
	}
	if !p.StockQty.IsZero() {
		return apierror.Conflictf("Cannot delete: product has non-zero stock.")
	}
	hasHistory, err := s.repo.HasHistory(ctx, id)
	if err != nil {
		return err
	}
	if hasHistory {
		return apierror.Conflictf("Cannot delete: product has transaction history.")
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) PriceBySKU(ctx context.Context, sku string) (*dto.PriceCheckResponse, error) {
	p, err := s.repo.FindBySKU(ctx, normalizeSKU(sku))
	if err != nil {
		return nil, apierror.NotFoundf("Product with SKU %s not found", normalizeSKU(sku))
	}
	return &dto.PriceCheckResponse{
		Name:           p.Name,
		Price:          p.Price,
		Unit:           p.Unit,
		StockAvailable: p.StockQty,
	}, nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		SKU:          p.SKU,
		Unit:         p.Unit,
		Price:        p.Price,
		CostPrice:    p.CostPrice,
		StockQty:     p.StockQty,
		ReorderLevel: p.ReorderLevel,
	}
}
