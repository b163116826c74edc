package service

import (
	"context"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

// Interfaces implemented by the Mongo, GORM and in-memory stores.

type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*model.Order, error)
	// List returns one page of matching orders, newest first, and the total match count.
	// A filter with PerPage <= 0 returns every match.
	List(ctx context.Context, f dto.OrderFilter) ([]*model.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, change model.StatusChange) error
	UpdateTracking(ctx context.Context, id int64, tracking string) error
	SetInvoiceNumber(ctx context.Context, id int64, invoice string) error
	Delete(ctx context.Context, id int64) error
	CustomerStats(ctx context.Context, userIDs []int64) (map[int64]model.CustomerStats, error)
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, f dto.UserFilter) ([]*model.User, int64, error)
	Count(ctx context.Context, f dto.UserFilter) (int64, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, ids []int64, active bool) (int64, error)
}

type RoleRepository interface {
	SaveRole(ctx context.Context, r *model.Role) error
	FindRole(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]*model.Role, error)
}

type CatalogRepository interface {
	SaveCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context) ([]*model.Category, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	FindProductsByIDs(ctx context.Context, ids []int64) ([]*model.Product, error)
	ListProducts(ctx context.Context, f dto.ProductFilter) ([]*model.Product, int64, error)
}

// Repositories groups the stores of one backend.
type Repositories struct {
	Orders  OrderRepository
	Users   UserRepository
	Roles   RoleRepository
	Catalog CatalogRepository
}

// EventPublisher announces order lifecycle events to other services.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, evt dto.StatusChangedEvent) error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, dto.StatusChangedEvent) error { return nil }
