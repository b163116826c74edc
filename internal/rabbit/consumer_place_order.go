package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"grocery-admin/internal/dto"
	"grocery-admin/internal/model"
	"grocery-admin/internal/service"
)

// OrderPlacer is the part of the order service the consumer needs.
type OrderPlacer interface {
	PlaceFromCheckout(ctx context.Context, msg dto.PlacedOrderMessage) (*model.Order, error)
}

type PlaceOrderConsumer struct {
	Service OrderPlacer
	Timeout time.Duration
}

func NewPlaceOrderConsumer(s OrderPlacer) *PlaceOrderConsumer {
	return &PlaceOrderConsumer{Service: s, Timeout: 10 * time.Second}
}

// errMalformed marks messages that will never succeed.
var errMalformed = errors.New("pesan tidak valid")

// Handle creates the order announced by checkout. Replays of an already stored
// order number are acknowledged without error.
func (c *PlaceOrderConsumer) Handle(msg []byte) error {
	log.Println("[Rabbit] Event diterima: place_order")

	var event dto.PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("[Rabbit] Gagal membaca pesan:", err)
		return errors.Join(errMalformed, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	o, err := c.Service.PlaceFromCheckout(ctx, event)
	if errors.Is(err, service.ErrOrderExists) {
		log.Println("[Rabbit] Pesanan sudah tercatat:", event.Message.OrderNumber)
		return nil
	}
	if err != nil {
		log.Println("[Rabbit] Gagal membuat pesanan:", err)
		return err
	}

	log.Println("[Rabbit] Pesanan dibuat:", o.OrderNumber)
	return nil
}

// Retryable reports whether a failed delivery should be requeued. Business
// rejections and malformed payloads are dropped.
func Retryable(err error) bool {
	var fe dto.FieldErrors
	switch {
	case errors.Is(err, errMalformed),
		errors.As(err, &fe),
		errors.Is(err, service.ErrCustomerInactive),
		errors.Is(err, service.ErrProductUnavailable),
		errors.Is(err, service.ErrInsufficientStock):
		return false
	}
	return true
}
