package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
)

type OrderService struct {
	orders  OrderRepository
	users   UserRepository
	catalog CatalogRepository
	events  EventPublisher
	now     func() time.Time
}

func NewOrderService(orders OrderRepository, users UserRepository, catalog CatalogRepository, events EventPublisher) *OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &OrderService{
		orders:  orders,
		users:   users,
		catalog: catalog,
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Getters
func (s *OrderService) List(ctx context.Context, f dto.OrderFilter) ([]*model.Order, int64, error) {
	return s.orders.List(ctx, f)
}

func (s *OrderService) Get(ctx context.Context, id int64) (*model.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// newOrder carries everything needed to place an order, from the admin form or
// from a checkout event.
type newOrder struct {
	number   string
	userID   int64
	items    []dto.CreateOrderItem
	address  string
	shipping decimal.Decimal
	tax      decimal.Decimal
	notes    string
	actorID  int64
	reason   string
}

// MaxLineQuantity is the per-line limit, matching the binding on CreateOrderItem.
const MaxLineQuantity = 1000

// Create places an order on behalf of a customer from the admin panel.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest, actorID int64) (*model.Order, error) {
	return s.place(ctx, newOrder{
		userID:   req.UserID,
		items:    req.Items,
		address:  req.ShippingAddress,
		shipping: req.ShippingCost,
		tax:      req.TaxAmount,
		notes:    req.Notes,
		actorID:  actorID,
		reason:   "Pesanan dibuat oleh admin",
	})
}

// PlaceFromCheckout creates the order announced by checkout. Replayed events are
// rejected with ErrOrderExists.
func (s *OrderService) PlaceFromCheckout(ctx context.Context, msg dto.PlacedOrderMessage) (*model.Order, error) {
	m := msg.Message
	if m.OrderNumber != "" {
		existing, err := s.orders.FindByOrderNumber(ctx, m.OrderNumber)
		if err == nil && existing != nil {
			return nil, ErrOrderExists
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	items := make([]dto.CreateOrderItem, 0, len(m.Items))
	for _, a := range m.Items {
		items = append(items, dto.CreateOrderItem{ProductID: a.ProductID, Quantity: a.Quantity})
	}
	shipping, err := parseAmount(m.ShippingCost)
	if err != nil {
		return nil, dto.FieldErrors{"shipping_cost": "nominal tidak valid"}
	}
	tax, err := parseAmount(m.TaxAmount)
	if err != nil {
		return nil, dto.FieldErrors{"tax_amount": "nominal tidak valid"}
	}

	return s.place(ctx, newOrder{
		number:   m.OrderNumber,
		userID:   m.UserID,
		items:    items,
		address:  formatShipping(m.Shipping),
		shipping: shipping,
		tax:      tax,
		notes:    m.Shipping.Comments,
		actorID:  m.UserID,
		reason:   "Pesanan dibuat dari checkout",
	})
}

func (s *OrderService) place(ctx context.Context, in newOrder) (*model.Order, error) {
	fieldErrs := dto.FieldErrors{}
	if len(in.items) == 0 {
		fieldErrs["items"] = "minimal satu produk"
	}
	for i, it := range in.items {
		if it.Quantity <= 0 || it.Quantity > MaxLineQuantity {
			fieldErrs[fmt.Sprintf("items[%d].quantity", i)] = fmt.Sprintf("jumlah harus antara 1 dan %d", MaxLineQuantity)
		}
	}
	if strings.TrimSpace(in.address) == "" {
		fieldErrs["shipping_address"] = "alamat pengiriman wajib diisi"
	}
	if in.shipping.IsNegative() {
		fieldErrs["shipping_cost"] = "tidak boleh negatif"
	}
	if in.tax.IsNegative() {
		fieldErrs["tax_amount"] = "tidak boleh negatif"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	customer, err := s.users.FindByID(ctx, in.userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, dto.FieldErrors{"user_id": "pelanggan tidak ditemukan"}
		}
		return nil, err
	}
	if !customer.Active {
		return nil, ErrCustomerInactive
	}

	quantities, order := mergeLines(in.items)
	products, err := s.catalog.FindProductsByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.OrderItem, 0, len(order))
	for _, id := range order {
		p, ok := byID[id]
		if !ok || !p.Active {
			return nil, fmt.Errorf("%w: #%d", ErrProductUnavailable, id)
		}
		qty := quantities[id]
		if p.Stock < qty {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}
		items = append(items, model.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			Price:       p.Price,
		})
	}

	now := s.now()
	number := in.number
	if number == "" {
		number = NewOrderNumber(now)
	}
	o := &model.Order{
		OrderNumber:     number,
		UserID:          customer.ID,
		CustomerName:    customer.Name,
		CustomerEmail:   customer.Email,
		Status:          model.StatusPending,
		Items:           items,
		ShippingCost:    in.shipping,
		TaxAmount:       in.tax,
		TotalAmount:     model.ComputeTotal(items, in.shipping, in.tax),
		ShippingAddress: strings.TrimSpace(in.address),
		Notes:           in.notes,
		CreatedAt:       now,
		UpdatedAt:       now,
		History: []model.StatusRecord{
			{
				Status:    model.StatusPending,
				Notes:     in.reason,
				ActorID:   in.actorID,
				Timestamp: now,
				Current:   true,
			},
		},
	}
	if err := s.orders.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrOrderExists
		}
		return nil, err
	}
	log.Printf("[Orders] pesanan %s dibuat untuk pelanggan %d (total %s)", o.OrderNumber, o.UserID, o.TotalAmount.StringFixed(2))
	return o, nil
}

// UpdateStatus validates the move against the transition table and applies it.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, newStatus, notes, tracking string, actorID int64) (*model.Order, error) {
	target, ok := model.ParseStatus(newStatus)
	if !ok {
		return nil, ErrInvalidStatus
	}

	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current := ord.Status

	// Same status: nothing to do
	if current == target {
		return ord, nil
	}
	if current.Final() {
		return nil, ErrFinalState
	}
	if !model.CanTransition(current, target) {
		return nil, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, current, target)
	}

	now := s.now()
	change := model.StatusChange{
		From: current,
		To:   target,
		Record: model.StatusRecord{
			Status:    target,
			Notes:     strings.TrimSpace(notes),
			ActorID:   actorID,
			Timestamp: now,
			Current:   true,
		},
		TrackingNumber: strings.TrimSpace(tracking),
	}
	if err := s.orders.UpdateStatus(ctx, id, change); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStaleStatus
		}
		return nil, err
	}

	evt := dto.StatusChangedEvent{
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		From:        string(current),
		To:          string(target),
		Notes:       change.Record.Notes,
		ActorID:     actorID,
		At:          now,
	}
	if err := s.events.PublishStatusChanged(ctx, evt); err != nil {
		log.Printf("[Orders] gagal mengirim event status pesanan %s: %v", ord.OrderNumber, err)
	}

	return s.orders.FindByID(ctx, id)
}

// ApplyAction runs a quick action from an order list page.
func (s *OrderService) ApplyAction(ctx context.Context, id int64, action string, actorID int64) (*model.Order, error) {
	a, ok := model.LookupAction(action)
	if !ok || !a.Transitional() {
		return nil, ErrUnknownAction
	}
	return s.UpdateStatus(ctx, id, string(a.Target), a.Notes, "", actorID)
}

func (s *OrderService) UpdateTracking(ctx context.Context, id int64, tracking string) (*model.Order, error) {
	tracking = strings.TrimSpace(tracking)
	if tracking == "" {
		return nil, dto.FieldErrors{"tracking_number": "nomor resi wajib diisi"}
	}
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord.Status == model.StatusCancelled {
		return nil, ErrFinalState
	}
	if err := s.orders.UpdateTracking(ctx, id, tracking); err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, id)
}

// Delete removes an order. Only cancelled orders may be deleted.
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !ord.Deletable() {
		return ErrNotDeletable
	}
	return s.orders.Delete(ctx, id)
}

// GenerateInvoice assigns an invoice number once; cancelled orders get none.
func (s *OrderService) GenerateInvoice(ctx context.Context, id int64) (string, error) {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if ord.InvoiceNumber != "" {
		return ord.InvoiceNumber, nil
	}
	if ord.Status == model.StatusCancelled {
		return "", ErrFinalState
	}
	invoice := "INV-" + strings.TrimPrefix(ord.OrderNumber, "ORD-")
	if err := s.orders.SetInvoiceNumber(ctx, id, invoice); err != nil {
		return "", err
	}
	return invoice, nil
}

// NewOrderNumber returns a human readable number such as ORD-20261017-3F9A1C.
func NewOrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), suffix)
}

// mergeLines sums quantities of repeated products, keeping first-seen order.
func mergeLines(items []dto.CreateOrderItem) (map[int64]int, []int64) {
	qty := make(map[int64]int, len(items))
	var order []int64
	for _, it := range items {
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return qty, order
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(s))
}

func formatShipping(sh dto.ShippingDTO) string {
	var parts []string
	for _, p := range []string{sh.AddressLine1, sh.City, sh.Province, sh.PostalCode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
