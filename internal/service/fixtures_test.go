package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
)

var fixedNow = time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.StatusChangedEvent
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, evt dto.StatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type fixture struct {
	repos    Repositories
	orders   *OrderService
	users    *UserService
	reports  *ReportService
	events   *recordingPublisher
	admin    *model.User
	buyer    *model.User
	inactive *model.User
	beras    *model.Product
	telur    *model.Product
	retired  *model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	repos := Repositories{Orders: store.Orders(), Users: store.Users(), Roles: store.Roles(), Catalog: store.Catalog()}

	f := &fixture{repos: repos, events: &recordingPublisher{}}
	f.orders = NewOrderService(repos.Orders, repos.Users, repos.Catalog, f.events)
	f.orders.now = func() time.Time { return fixedNow }
	f.users = NewUserService(repos.Users, repos.Orders)
	f.users.now = func() time.Time { return fixedNow }
	f.reports = NewReportService(repos.Orders, repos.Users, repos.Catalog)

	require.NoError(t, repos.Roles.SaveRole(ctx, &model.Role{Name: model.RoleAdmin, Permissions: model.AllPermissions}))
	require.NoError(t, repos.Roles.SaveRole(ctx, &model.Role{Name: model.RoleBuyer, Permissions: []string{}}))

	f.admin = createUser(t, repos, "Admin", "admin@grocery.local", model.RoleAdmin, true)
	f.buyer = createUser(t, repos, "Budi Santoso", "budi@example.com", model.RoleBuyer, true)
	f.inactive = createUser(t, repos, "Sari", "sari@example.com", model.RoleBuyer, false)

	f.beras = createProduct(t, repos, "Beras Pandan Wangi 5kg", "65000", 50, true)
	f.telur = createProduct(t, repos, "Telur Ayam 1kg", "28000", 2, true)
	f.retired = createProduct(t, repos, "Sirup Lama", "15000", 40, false)
	return f
}

func createUser(t *testing.T, repos Repositories, name, email, role string, active bool) *model.User {
	t.Helper()
	u := &model.User{Name: name, Email: email, Role: role, Active: active, CreatedAt: fixedNow.AddDate(0, 0, -3), UpdatedAt: fixedNow}
	require.NoError(t, u.SetPassword("password123"))
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func createProduct(t *testing.T, repos Repositories, name, price string, stock int, active bool) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:   name,
		Slug:   name,
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
		Unit:   "pcs",
		Active: active,
	}
	require.NoError(t, repos.Catalog.CreateProduct(context.Background(), p))
	return p
}

// placeOrder creates a pending order of two bags of rice for the buyer.
func (f *fixture) placeOrder(t *testing.T) *model.Order {
	t.Helper()
	o, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		UserID:          f.buyer.ID,
		Items:           []dto.CreateOrderItem{{ProductID: f.beras.ID, Quantity: 2}},
		ShippingAddress: "Jl. Melati No. 4, Bandung",
		ShippingCost:    decimal.NewFromInt(15000),
		TaxAmount:       decimal.NewFromInt(14300),
	}, f.admin.ID)
	require.NoError(t, err)
	return o
}

// advance walks the order through statuses, failing the test on any error.
func (f *fixture) advance(t *testing.T, id int64, statuses ...model.Status) *model.Order {
	t.Helper()
	var o *model.Order
	for _, st := range statuses {
		var err error
		o, err = f.orders.UpdateStatus(context.Background(), id, string(st), "", "", f.admin.ID)
		require.NoError(t, err)
	}
	return o
}
