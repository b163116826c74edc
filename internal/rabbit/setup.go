// setup.go
package rabbit

import (
	"log"

	"github.com/rabbitmq/amqp091-go"
)

const (
	OrdersQueue           = "grocery_admin_orders"
	OrderPlacedExchange   = "order_placed"
	StatusChangedExchange = "order_status_changed"
)

// SetupConsumers subscribes the admin queue to the checkout fanout exchange and
// feeds every delivery to the place-order consumer.
func SetupConsumers(ch *amqp091.Channel, consumer *PlaceOrderConsumer) error {
	// 1. Declare the exchange and our queue
	if err := ch.ExchangeDeclare(OrderPlacedExchange, "fanout", true, false, false, false, nil); err != nil {
		log.Println("[Rabbit] Gagal mendeklarasikan exchange:", err)
		return err
	}
	q, err := ch.QueueDeclare(
		OrdersQueue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("[Rabbit] Gagal mendeklarasikan queue:", err)
		return err
	}

	// 2. Bind to the fanout exchange
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignores the routing key
		OrderPlacedExchange,
		false,
		nil,
	)
	if err != nil {
		log.Println("[Rabbit] Gagal binding exchange:", err)
		return err
	}

	// 3. Consume with manual acks
	msgs, err := ch.Consume(
		q.Name,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("[Rabbit] Gagal consume queue:", err)
		return err
	}

	go func() {
		for m := range msgs {
			if err := consumer.Handle(m.Body); err != nil && Retryable(err) {
				_ = m.Nack(false, true)
				continue
			}
			_ = m.Ack(false)
		}
	}()

	log.Printf("[Rabbit] Berlangganan ke exchange %s (fanout)", OrderPlacedExchange)
	return nil
}
