// messages.go
package dto

import "time"

// ShippingDTO is the address block of a checkout event.
type ShippingDTO struct {
	AddressLine1 string `json:"addressLine1"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Province     string `json:"province"`
	Comments     string `json:"comments"`
}

// PlacedOrderMessage is the envelope published on the order_placed exchange by checkout.
type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderNumber string `json:"orderNumber"`
		UserID      int64  `json:"userId"`
		Items       []struct {
			ProductID int64 `json:"productId"`
			Quantity  int   `json:"quantity"`
		} `json:"items"`
		ShippingCost string      `json:"shippingCost"`
		TaxAmount    string      `json:"taxAmount"`
		Shipping     ShippingDTO `json:"shipping"`
	} `json:"message"`
}

// StatusChangedEvent is published after every successful status change.
type StatusChangedEvent struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Notes       string    `json:"notes"`
	ActorID     int64     `json:"actor_id"`
	At          time.Time `json:"at"`
}
