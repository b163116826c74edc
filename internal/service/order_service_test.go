package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/repository"
)

func currentRecords(o *model.Order) int {
	n := 0
	for _, h := range o.History {
		if h.Current {
			n++
		}
	}
	return n
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t)

	assert.NotZero(t, o.ID)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Equal(t, "Budi Santoso", o.CustomerName)
	assert.Equal(t, "159300.00", o.TotalAmount.StringFixed(2))
	assert.Regexp(t, `^ORD-20261017-[0-9A-F]{6}$`, o.OrderNumber)
	require.Len(t, o.History, 1)
	assert.True(t, o.History[0].Current)
	assert.Equal(t, f.admin.ID, o.History[0].ActorID)
}

func TestCreateOrderMergesRepeatedProducts(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		UserID: f.buyer.ID,
		Items: []dto.CreateOrderItem{
			{ProductID: f.beras.ID, Quantity: 1},
			{ProductID: f.telur.ID, Quantity: 1},
			{ProductID: f.beras.ID, Quantity: 2},
		},
		ShippingAddress: "Jl. Kenanga 1",
	}, f.admin.ID)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, f.beras.ID, o.Items[0].ProductID)
	assert.Equal(t, 3, o.Items[0].Quantity)
	assert.True(t, o.TotalAmount.Equal(decimal.NewFromInt(3*65000+28000)))
}

func TestCreateOrderRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := dto.CreateOrderRequest{
		UserID:          f.buyer.ID,
		Items:           []dto.CreateOrderItem{{ProductID: f.beras.ID, Quantity: 1}},
		ShippingAddress: "Jl. Mawar 2",
	}

	req := base
	req.Items = nil
	req.ShippingAddress = " "
	_, err := f.orders.Create(ctx, req, f.admin.ID)
	var fe dto.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "items")
	assert.Contains(t, fe, "shipping_address")

	req = base
	req.UserID = f.inactive.ID
	_, err = f.orders.Create(ctx, req, f.admin.ID)
	assert.ErrorIs(t, err, ErrCustomerInactive)

	req = base
	req.Items = []dto.CreateOrderItem{{ProductID: f.telur.ID, Quantity: 3}}
	_, err = f.orders.Create(ctx, req, f.admin.ID)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	req = base
	req.Items = []dto.CreateOrderItem{{ProductID: f.retired.ID, Quantity: 1}}
	_, err = f.orders.Create(ctx, req, f.admin.ID)
	assert.ErrorIs(t, err, ErrProductUnavailable)

	req = base
	req.UserID = 999
	_, err = f.orders.Create(ctx, req, f.admin.ID)
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe, "user_id")
}

func TestApproveAndReject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved, err := f.orders.ApplyAction(ctx, f.placeOrder(t).ID, model.ActionApprove, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, approved.Status)
	require.Len(t, approved.History, 2)
	assert.Equal(t, "Pesanan dikonfirmasi", approved.History[1].Notes)
	assert.Equal(t, 1, currentRecords(approved))
	assert.Equal(t, model.StatusProcessing, approved.CurrentRecord().Status)

	rejected, err := f.orders.ApplyAction(ctx, f.placeOrder(t).ID, model.ActionReject, f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, rejected.Status)
	assert.Equal(t, "Pesanan ditolak", rejected.CurrentRecord().Notes)

	_, err = f.orders.ApplyAction(ctx, rejected.ID, model.ActionTrack, f.admin.ID)
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t)
	ctx := context.Background()

	_, err := f.orders.UpdateStatus(ctx, o.ID, "shipped", "", "", f.admin.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(ctx, o.ID, "lost", "", "", f.admin.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	f.advance(t, o.ID, model.StatusProcessing)
	shipped, err := f.orders.UpdateStatus(ctx, o.ID, "shipped", "via JNE", "JNE123", f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "JNE123", shipped.TrackingNumber)
	require.NotNil(t, shipped.ShippedAt)

	delivered := f.advance(t, o.ID, model.StatusDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	assert.Len(t, delivered.History, 4)
	assert.Equal(t, 1, currentRecords(delivered))

	// same status is a no-op even on a final order
	same, err := f.orders.UpdateStatus(ctx, o.ID, "delivered", "", "", f.admin.ID)
	require.NoError(t, err)
	assert.Len(t, same.History, 4)

	_, err = f.orders.UpdateStatus(ctx, o.ID, "cancelled", "", "", f.admin.ID)
	assert.ErrorIs(t, err, ErrFinalState)

	require.Len(t, f.events.events, 3)
	assert.Equal(t, "processing", f.events.events[0].To)
	assert.Equal(t, "delivered", f.events.events[2].To)
}

type staleOrders struct {
	OrderRepository
	status model.Status
}

func (s staleOrders) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	o, err := s.OrderRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Status = s.status
	return o, nil
}

func TestUpdateStatusStale(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t)
	f.advance(t, o.ID, model.StatusProcessing)

	// another admin already approved the order this one is still looking at
	svc := NewOrderService(staleOrders{f.repos.Orders, model.StatusPending}, f.repos.Users, f.repos.Catalog, nil)
	_, err := svc.UpdateStatus(context.Background(), o.ID, "processing", "", "", f.admin.ID)
	assert.ErrorIs(t, err, ErrStaleStatus)
}

func TestDeleteOnlyCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.placeOrder(t)

	assert.ErrorIs(t, f.orders.Delete(ctx, o.ID), ErrNotDeletable)

	f.advance(t, o.ID, model.StatusCancelled)
	require.NoError(t, f.orders.Delete(ctx, o.ID))

	_, err := f.orders.Get(ctx, o.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.orders.Delete(ctx, o.ID), ErrNotFound)
}

func TestUpdateTrackingAndInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.placeOrder(t)

	_, err := f.orders.UpdateTracking(ctx, o.ID, "  ")
	var fe dto.FieldErrors
	assert.True(t, errors.As(err, &fe))

	updated, err := f.orders.UpdateTracking(ctx, o.ID, " SICEPAT-77 ")
	require.NoError(t, err)
	assert.Equal(t, "SICEPAT-77", updated.TrackingNumber)

	inv, err := f.orders.GenerateInvoice(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-"+o.OrderNumber[len("ORD-"):], inv)

	again, err := f.orders.GenerateInvoice(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, inv, again)
}

func TestPlaceFromCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var msg dto.PlacedOrderMessage
	msg.Message.OrderNumber = "ORD-20261017-CHK001"
	msg.Message.UserID = f.buyer.ID
	msg.Message.ShippingCost = "10000"
	msg.Message.TaxAmount = "7150.00"
	msg.Message.Shipping = dto.ShippingDTO{AddressLine1: "Jl. Anggrek 9", City: "Depok", Province: "Jawa Barat"}
	msg.Message.Items = append(msg.Message.Items, struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}{ProductID: f.beras.ID, Quantity: 1})

	o, err := f.orders.PlaceFromCheckout(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20261017-CHK001", o.OrderNumber)
	assert.Equal(t, "Jl. Anggrek 9, Depok, Jawa Barat", o.ShippingAddress)
	assert.Equal(t, "82150.00", o.TotalAmount.StringFixed(2))
	assert.Equal(t, f.buyer.ID, o.History[0].ActorID)

	_, err = f.orders.PlaceFromCheckout(ctx, msg)
	assert.ErrorIs(t, err, ErrOrderExists)

	msg.Message.OrderNumber = "ORD-20261017-CHK002"
	msg.Message.TaxAmount = "sebelas"
	_, err = f.orders.PlaceFromCheckout(ctx, msg)
	var fe dto.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "tax_amount")

	msg.Message.TaxAmount = "0"
	msg.Message.ShippingCost = "abc"
	_, err = f.orders.PlaceFromCheckout(ctx, msg)
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "shipping_cost")
}

func TestPlaceFromCheckoutRejectsBadQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, qty := range []int{-3, 0, MaxLineQuantity + 1} {
		var msg dto.PlacedOrderMessage
		msg.Message.OrderNumber = fmt.Sprintf("ORD-20261017-Q%d", qty)
		msg.Message.UserID = f.buyer.ID
		msg.Message.Shipping = dto.ShippingDTO{AddressLine1: "Jl. Anggrek 9", City: "Depok"}
		msg.Message.Items = append(msg.Message.Items, struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		}{ProductID: f.beras.ID, Quantity: qty})

		_, err := f.orders.PlaceFromCheckout(ctx, msg)
		var fe dto.FieldErrors
		require.ErrorAs(t, err, &fe, "quantity %d", qty)
		assert.Contains(t, fe, "items[0].quantity")

		_, err = f.repos.Orders.FindByOrderNumber(ctx, msg.Message.OrderNumber)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		UserID:          f.buyer.ID,
		Items:           []dto.CreateOrderItem{{ProductID: f.beras.ID, Quantity: 1}, {ProductID: f.telur.ID, Quantity: -1}},
		ShippingAddress: "Jl. Melati 1",
	}, f.admin.ID)
	var fe dto.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "items[1].quantity")
	assert.NotContains(t, fe, "items[0].quantity")
}

func TestNewOrderNumberUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := NewOrderNumber(fixedNow)
		assert.False(t, seen[n], n)
		seen[n] = true
	}
}
