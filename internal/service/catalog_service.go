package service

import (
	"context"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

// CatalogService exposes the read-only product lookups used by the order form.
type CatalogService struct {
	catalog CatalogRepository
}

func NewCatalogService(c CatalogRepository) *CatalogService {
	return &CatalogService{catalog: c}
}

func (s *CatalogService) Products(ctx context.Context, f dto.ProductFilter) ([]*model.Product, int64, error) {
	return s.catalog.ListProducts(ctx, f)
}

func (s *CatalogService) Categories(ctx context.Context) ([]*model.Category, error) {
	return s.catalog.ListCategories(ctx)
}
