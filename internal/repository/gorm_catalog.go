package repository

import (
	"context"

	"gorm.io/gorm"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

type GormCatalogRepository struct {
	db *gorm.DB
}

func (r *GormCatalogRepository) SaveCategory(ctx context.Context, c *model.Category) error {
	var existing model.Category
	err := r.db.WithContext(ctx).First(&existing, "slug = ?", c.Slug).Error
	switch {
	case err == nil:
		c.ID, c.CreatedAt = existing.ID, existing.CreatedAt
		return r.db.WithContext(ctx).Model(&existing).Update("name", c.Name).Error
	case gormErr(err) != ErrNotFound:
		return err
	}
	return gormErr(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	var out []*model.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
	return out, err
}

func (r *GormCatalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return gormErr(r.db.WithContext(ctx).Create(p).Error)
}

func (r *GormCatalogRepository) FindProductsByIDs(ctx context.Context, ids []int64) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []*model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *GormCatalogRepository) ListProducts(ctx context.Context, f dto.ProductFilter) ([]*model.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(productScope(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []*model.Product
	err := r.db.WithContext(ctx).
		Scopes(productScope(f), paginate(f.Offset(), f.PerPage)).
		Order("name ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func productScope(f dto.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			db = db.Where("name LIKE ?", likePattern(f.Search))
		}
		if f.CategoryID > 0 {
			db = db.Where("category_id = ?", f.CategoryID)
		}
		if f.ActiveOnly {
			db = db.Where("active = ?", true)
		}
		if f.MaxStock != nil {
			db = db.Where("stock <= ?", *f.MaxStock)
		}
		if len(f.IDs) > 0 {
			db = db.Where("id IN ?", f.IDs)
		}
		return db
	}
}
