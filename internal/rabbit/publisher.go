package rabbit

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"grocery-admin/internal/dto"
)

// Publisher announces status changes on the order_status_changed fanout exchange.
type Publisher struct {
	mu sync.Mutex
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	if err := ch.ExchangeDeclare(StatusChangedExchange, "fanout", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, evt dto.StatusChangedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, StatusChangedExchange, "", false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    evt.At,
		Type:         "order_status_changed",
		Body:         body,
	})
}
