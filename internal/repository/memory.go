package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
)

// MemoryStore keeps everything in process. It backs the tests and the "memory"
// storage driver. Values are copied on the way in and out so callers never share
// state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	seq        map[string]int64
	orders     map[int64]*model.Order
	users      map[int64]*model.User
	roles      map[string]*model.Role
	categories map[int64]*model.Category
	products   map[int64]*model.Product
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seq:        map[string]int64{},
		orders:     map[int64]*model.Order{},
		users:      map[int64]*model.User{},
		roles:      map[string]*model.Role{},
		categories: map[int64]*model.Category{},
		products:   map[int64]*model.Product{},
	}
}

func (s *MemoryStore) Orders() *MemoryOrderRepository    { return &MemoryOrderRepository{s} }
func (s *MemoryStore) Users() *MemoryUserRepository      { return &MemoryUserRepository{s} }
func (s *MemoryStore) Roles() *MemoryRoleRepository      { return &MemoryRoleRepository{s} }
func (s *MemoryStore) Catalog() *MemoryCatalogRepository { return &MemoryCatalogRepository{s} }

func (s *MemoryStore) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

func cloneOrder(o *model.Order) *model.Order {
	c := *o
	c.Items = append([]model.OrderItem(nil), o.Items...)
	c.History = append([]model.StatusRecord(nil), o.History...)
	if o.ShippedAt != nil {
		t := *o.ShippedAt
		c.ShippedAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		c.DeliveredAt = &t
	}
	return &c
}

func cloneUser(u *model.User) *model.User {
	c := *u
	return &c
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// page slices rows to the requested page; PerPage <= 0 keeps every row.
func page[T any](rows []T, p dto.Pagination) []T {
	if p.Unbounded() {
		return rows
	}
	start := p.Offset()
	if start >= len(rows) {
		return nil
	}
	end := start + p.PerPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

type MemoryOrderRepository struct {
	s *MemoryStore
}

func (r *MemoryOrderRepository) Create(ctx context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderNumber == o.OrderNumber {
			return ErrDuplicate
		}
	}
	o.ID = r.s.next("orders")
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryOrderRepository) FindByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.orders {
		if o.OrderNumber == number {
			return cloneOrder(o), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryOrderRepository) List(ctx context.Context, f dto.OrderFilter) ([]*model.Order, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []*model.Order
	for _, o := range r.s.orders {
		if matchOrder(o, f) {
			rows = append(rows, o)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	total := int64(len(rows))
	var out []*model.Order
	for _, o := range page(rows, f.Pagination) {
		out = append(out, cloneOrder(o))
	}
	return out, total, nil
}

func matchOrder(o *model.Order, f dto.OrderFilter) bool {
	if f.Search != "" &&
		!containsFold(o.OrderNumber, f.Search) &&
		!containsFold(o.CustomerName, f.Search) &&
		!containsFold(o.CustomerEmail, f.Search) &&
		!containsFold(o.TrackingNumber, f.Search) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			if o.Status == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !inRange(o.CreatedAt, f.From, f.To) {
		return false
	}
	if f.MinAmount != nil && o.TotalAmount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && o.TotalAmount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.TrackingNumber != "" && !containsFold(o.TrackingNumber, f.TrackingNumber) {
		return false
	}
	if len(f.UserIDs) > 0 && !containsID(f.UserIDs, o.UserID) {
		return false
	}
	if len(f.IDs) > 0 && !containsID(f.IDs, o.ID) {
		return false
	}
	return true
}

func (r *MemoryOrderRepository) UpdateStatus(ctx context.Context, id int64, change model.StatusChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != change.From {
		return ErrConflict
	}
	ts := change.Record.Timestamp
	o.Status = change.To
	o.UpdatedAt = ts
	switch change.To {
	case model.StatusShipped:
		o.ShippedAt = &ts
	case model.StatusDelivered:
		o.DeliveredAt = &ts
	}
	if change.TrackingNumber != "" {
		o.TrackingNumber = change.TrackingNumber
	}
	for i := range o.History {
		o.History[i].Current = false
	}
	rec := change.Record
	rec.Current = true
	o.History = append(o.History, rec)
	return nil
}

func (r *MemoryOrderRepository) UpdateTracking(ctx context.Context, id int64, tracking string) error {
	return r.mutate(id, func(o *model.Order) { o.TrackingNumber = tracking })
}

func (r *MemoryOrderRepository) SetInvoiceNumber(ctx context.Context, id int64, invoice string) error {
	return r.mutate(id, func(o *model.Order) { o.InvoiceNumber = invoice })
}

func (r *MemoryOrderRepository) mutate(id int64, fn func(*model.Order)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return ErrNotFound
	}
	fn(o)
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryOrderRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r *MemoryOrderRepository) CustomerStats(ctx context.Context, userIDs []int64) (map[int64]model.CustomerStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[int64]model.CustomerStats{}
	for _, o := range r.s.orders {
		if !containsID(userIDs, o.UserID) {
			continue
		}
		st, ok := out[o.UserID]
		if !ok {
			st.TotalSpent = decimal.Zero
		}
		st.OrdersCount++
		if o.Status != model.StatusCancelled {
			st.TotalSpent = st.TotalSpent.Add(o.TotalAmount)
		}
		out[o.UserID] = st
	}
	return out, nil
}

func (r *MemoryOrderRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.orders)), nil
}

type MemoryUserRepository struct {
	s *MemoryStore
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	u.ID = r.s.next("users")
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) matching(f dto.UserFilter) []*model.User {
	var rows []*model.User
	for _, u := range r.s.users {
		if matchUser(u, f) {
			rows = append(rows, u)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	return rows
}

func matchUser(u *model.User, f dto.UserFilter) bool {
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) && !containsFold(u.Phone, f.Search) {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Active != nil && u.Active != *f.Active {
		return false
	}
	if !inRange(u.CreatedAt, f.From, f.To) {
		return false
	}
	if len(f.IDs) > 0 && !containsID(f.IDs, u.ID) {
		return false
	}
	return true
}

func (r *MemoryUserRepository) List(ctx context.Context, f dto.UserFilter) ([]*model.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rows := r.matching(f)
	var out []*model.User
	for _, u := range page(rows, f.Pagination) {
		out = append(out, cloneUser(u))
	}
	return out, int64(len(rows)), nil
}

func (r *MemoryUserRepository) Count(ctx context.Context, f dto.UserFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.matching(f))), nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return ErrNotFound
	}
	for _, other := range r.s.users {
		if other.ID != u.ID && other.Email == u.Email {
			return ErrDuplicate
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r *MemoryUserRepository) SetActive(ctx context.Context, ids []int64, active bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			u.Active = active
			u.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

type MemoryRoleRepository struct {
	s *MemoryStore
}

func (r *MemoryRoleRepository) SaveRole(ctx context.Context, role *model.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.s.roles[role.Name]; ok {
		role.ID, role.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		role.ID = r.s.next("roles")
		role.CreatedAt = now
	}
	role.UpdatedAt = now
	c := *role
	c.Permissions = append([]string(nil), role.Permissions...)
	r.s.roles[role.Name] = &c
	return nil
}

func (r *MemoryRoleRepository) FindRole(ctx context.Context, name string) (*model.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	role, ok := r.s.roles[name]
	if !ok {
		return nil, ErrNotFound
	}
	c := *role
	c.Permissions = append([]string(nil), role.Permissions...)
	return &c, nil
}

func (r *MemoryRoleRepository) ListRoles(ctx context.Context) ([]*model.Role, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Role, 0, len(r.s.roles))
	for _, role := range r.s.roles {
		c := *role
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type MemoryCatalogRepository struct {
	s *MemoryStore
}

func (r *MemoryCatalogRepository) SaveCategory(ctx context.Context, c *model.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Slug == c.Slug {
			c.ID, c.CreatedAt = existing.ID, existing.CreatedAt
			existing.Name = c.Name
			return nil
		}
	}
	c.ID = r.s.next("categories")
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	cp := *c
	r.s.categories[c.ID] = &cp
	return nil
}

func (r *MemoryCatalogRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryCatalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Slug == p.Slug {
			return ErrDuplicate
		}
	}
	p.ID = r.s.next("products")
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *MemoryCatalogRepository) FindProductsByIDs(ctx context.Context, ids []int64) ([]*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*model.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryCatalogRepository) ListProducts(ctx context.Context, f dto.ProductFilter) ([]*model.Product, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var rows []*model.Product
	for _, p := range r.s.products {
		if f.Search != "" && !containsFold(p.Name, f.Search) {
			continue
		}
		if f.CategoryID > 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.ActiveOnly && !p.Active {
			continue
		}
		if f.MaxStock != nil && p.Stock > *f.MaxStock {
			continue
		}
		if len(f.IDs) > 0 && !containsID(f.IDs, p.ID) {
			continue
		}
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	var out []*model.Product
	for _, p := range page(rows, f.Pagination) {
		cp := *p
		out = append(out, &cp)
	}
	return out, int64(len(rows)), nil
}
