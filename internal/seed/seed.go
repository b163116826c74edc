// Package seed fills an empty store with roles, an admin account and demo grocery
// data. Every step is idempotent.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
	"grocery-admin/internal/service"
)

type Options struct {
	AdminName     string
	AdminEmail    string
	AdminPassword string
	Buyers        int
	Orders        int
	RandSeed      int64
	Now           time.Time
}

// Result is one row of the seeding summary.
type Result struct {
	Name    string
	Created int
	Skipped int
}

type Seeder struct {
	repos service.Repositories
	opts  Options
	rnd   *rand.Rand

	// actor recorded on the seeded status changes
	adminID int64
}

func New(repos service.Repositories, opts Options) *Seeder {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	return &Seeder{repos: repos, opts: opts, rnd: rand.New(rand.NewSource(opts.RandSeed))}
}

// Run executes every seeder in dependency order.
func (s *Seeder) Run(ctx context.Context) ([]Result, error) {
	steps := []struct {
		name string
		fn   func(context.Context) (Result, error)
	}{
		{"roles", s.Roles},
		{"admin", s.Admin},
		{"catalog", s.Catalog},
		{"buyers", s.Buyers},
		{"orders", s.Orders},
	}
	var out []Result
	for _, st := range steps {
		res, err := st.fn(ctx)
		if err != nil {
			return out, fmt.Errorf("seed %s: %w", st.name, err)
		}
		res.Name = st.name
		log.Printf("[Seeder] %s: %d dibuat, %d dilewati", st.name, res.Created, res.Skipped)
		out = append(out, res)
	}
	return out, nil
}

// Roles upserts the admin role with every permission and the buyer role with none.
func (s *Seeder) Roles(ctx context.Context) (Result, error) {
	var res Result
	roles := []*model.Role{
		{Name: model.RoleAdmin, Permissions: model.AllPermissions},
		{Name: model.RoleBuyer, Permissions: []string{}},
	}
	for _, r := range roles {
		_, err := s.repos.Roles.FindRole(ctx, r.Name)
		switch {
		case err == nil:
			res.Skipped++
		case errors.Is(err, repository.ErrNotFound):
			res.Created++
		default:
			return res, err
		}
		if err := s.repos.Roles.SaveRole(ctx, r); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Seeder) Admin(ctx context.Context) (Result, error) {
	existing, err := s.repos.Users.FindByEmail(ctx, s.opts.AdminEmail)
	if err == nil {
		s.adminID = existing.ID
		return Result{Skipped: 1}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return Result{}, err
	}
	u := &model.User{
		Name:      s.opts.AdminName,
		Email:     s.opts.AdminEmail,
		Role:      model.RoleAdmin,
		Active:    true,
		CreatedAt: s.opts.Now,
		UpdatedAt: s.opts.Now,
	}
	if err := u.SetPassword(s.opts.AdminPassword); err != nil {
		return Result{}, err
	}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return Result{}, err
	}
	s.adminID = u.ID
	return Result{Created: 1}, nil
}

func (s *Seeder) Catalog(ctx context.Context) (Result, error) {
	var res Result
	for _, cs := range groceryCatalog {
		cat := &model.Category{Name: cs.Name, Slug: slug.Make(cs.Name), CreatedAt: s.opts.Now}
		if err := s.repos.Catalog.SaveCategory(ctx, cat); err != nil {
			return res, err
		}
		for _, ps := range cs.Products {
			p := &model.Product{
				Name:       ps.Name,
				Slug:       slug.Make(ps.Name),
				CategoryID: cat.ID,
				Category:   cat.Name,
				Price:      decimal.NewFromInt(ps.Price),
				Stock:      ps.Stock,
				Unit:       ps.Unit,
				Active:     true,
				CreatedAt:  s.opts.Now,
				UpdatedAt:  s.opts.Now,
			}
			err := s.repos.Catalog.CreateProduct(ctx, p)
			switch {
			case err == nil:
				res.Created++
			case errors.Is(err, repository.ErrDuplicate):
				res.Skipped++
			default:
				return res, err
			}
		}
	}
	return res, nil
}

func (s *Seeder) Buyers(ctx context.Context) (Result, error) {
	var res Result
	for i := 1; i <= s.opts.Buyers; i++ {
		email := fmt.Sprintf("pelanggan%03d@example.com", i)
		_, err := s.repos.Users.FindByEmail(ctx, email)
		if err == nil {
			res.Skipped++
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return res, err
		}

		first := firstNames[(i-1)%len(firstNames)]
		last := lastNames[((i-1)/len(firstNames)+i)%len(lastNames)]
		created := s.opts.Now.AddDate(0, 0, -(90 - (i*7)%90))
		u := &model.User{
			Name:      first + " " + last,
			Email:     email,
			Phone:     fmt.Sprintf("08%010d", 1200000000+i*7919),
			Address:   fmt.Sprintf("%s No. %d, %s", streets[i%len(streets)], i, cities[i%len(cities)]),
			Role:      model.RoleBuyer,
			Active:    i%10 != 0,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := u.SetPassword("password123"); err != nil {
			return res, err
		}
		if err := s.repos.Users.Create(ctx, u); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

// Orders tops the store up to the requested number of orders. Histories follow
// the status transition table.
func (s *Seeder) Orders(ctx context.Context) (Result, error) {
	existing, err := s.repos.Orders.Count(ctx)
	if err != nil {
		return Result{}, err
	}
	if int(existing) >= s.opts.Orders {
		return Result{Skipped: int(existing)}, nil
	}

	buyers, _, err := s.repos.Users.List(ctx, dto.UserFilter{Role: model.RoleBuyer})
	if err != nil {
		return Result{}, err
	}
	products, _, err := s.repos.Catalog.ListProducts(ctx, dto.ProductFilter{ActiveOnly: true})
	if err != nil {
		return Result{}, err
	}
	if len(buyers) == 0 || len(products) == 0 {
		return Result{}, errors.New("pembeli dan produk harus di-seed terlebih dahulu")
	}

	res := Result{Skipped: int(existing)}
	for i := int(existing); i < s.opts.Orders; i++ {
		o := s.buildOrder(buyers[s.rnd.Intn(len(buyers))], products)
		err := s.repos.Orders.Create(ctx, o)
		if errors.Is(err, repository.ErrDuplicate) {
			o.OrderNumber = s.orderNumber(o.CreatedAt)
			err = s.repos.Orders.Create(ctx, o)
		}
		if err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (s *Seeder) buildOrder(buyer *model.User, products []*model.Product) *model.Order {
	created := s.opts.Now.Add(-time.Duration(s.rnd.Intn(60*24)) * time.Hour).Truncate(time.Minute)

	picked := map[int64]bool{}
	var items []model.OrderItem
	for n := 1 + s.rnd.Intn(4); len(items) < n; {
		p := products[s.rnd.Intn(len(products))]
		if picked[p.ID] {
			if len(picked) == len(products) {
				break
			}
			continue
		}
		picked[p.ID] = true
		items = append(items, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    1 + s.rnd.Intn(3),
			Price:       p.Price,
		})
	}

	shipping := decimal.NewFromInt(int64(10000 + 5000*s.rnd.Intn(3)))
	subtotal := model.ComputeTotal(items, decimal.Zero, decimal.Zero)
	tax := subtotal.Mul(decimal.NewFromFloat(0.11)).Round(0)

	o := &model.Order{
		OrderNumber:     s.orderNumber(created),
		UserID:          buyer.ID,
		CustomerName:    buyer.Name,
		CustomerEmail:   buyer.Email,
		Items:           items,
		ShippingCost:    shipping,
		TaxAmount:       tax,
		TotalAmount:     model.ComputeTotal(items, shipping, tax),
		ShippingAddress: buyer.Address,
		CreatedAt:       created,
	}
	s.applyHistory(o, s.statusPath())
	return o
}

// statusPath picks a legal walk through the status table starting at pending.
func (s *Seeder) statusPath() []model.Status {
	path := []model.Status{model.StatusPending}
	for {
		current := path[len(path)-1]
		next := model.Transitions[current]
		if len(next) == 0 {
			return path
		}
		// stop early about a third of the time so every status is represented
		if s.rnd.Intn(3) == 0 {
			return path
		}
		// prefer the forward move over cancelling
		choice := next[0]
		if len(next) > 1 && s.rnd.Intn(5) == 0 {
			choice = next[len(next)-1]
		}
		path = append(path, choice)
	}
}

var pathNotes = map[model.Status]string{
	model.StatusPending:    "Pesanan dibuat dari checkout",
	model.StatusProcessing: "Pesanan dikonfirmasi",
	model.StatusShipped:    "Pesanan dikirim",
	model.StatusDelivered:  "Pesanan selesai",
	model.StatusCancelled:  "Pesanan dibatalkan",
}

func (s *Seeder) applyHistory(o *model.Order, path []model.Status) {
	ts := o.CreatedAt
	for i, st := range path {
		if i > 0 {
			ts = ts.Add(time.Duration(1+s.rnd.Intn(36)) * time.Hour)
		}
		actor := o.UserID
		if i > 0 {
			actor = s.adminID
		}
		o.History = append(o.History, model.StatusRecord{
			Status:    st,
			Notes:     pathNotes[st],
			ActorID:   actor,
			Timestamp: ts,
			Current:   i == len(path)-1,
		})
		switch st {
		case model.StatusShipped:
			t := ts
			o.ShippedAt = &t
			o.TrackingNumber = fmt.Sprintf("%s%010d", couriers[s.rnd.Intn(len(couriers))], s.rnd.Int63n(1e10))
		case model.StatusDelivered:
			t := ts
			o.DeliveredAt = &t
		}
	}
	o.Status = path[len(path)-1]
	o.UpdatedAt = ts
}

func (s *Seeder) orderNumber(t time.Time) string {
	return fmt.Sprintf("ORD-%s-%06X", t.Format("20060102"), s.rnd.Intn(0x1000000))
}
