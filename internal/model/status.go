package model

import "slices"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every valid order status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Transitions is the single table of legal status moves. The API enforces it
// and the admin client reads the same table before sending a request.
var Transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// Final states
var finalStates = map[Status]bool{
	StatusDelivered: true,
	StatusCancelled: true,
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	if slices.Contains(Statuses, st) {
		return st, true
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

func (s Status) Final() bool {
	return finalStates[s]
}

func CanTransition(from, to Status) bool {
	return slices.Contains(Transitions[from], to)
}

type StatusBadge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var badges = map[Status]StatusBadge{
	StatusPending:    {Label: "Menunggu", Color: "yellow"},
	StatusProcessing: {Label: "Diproses", Color: "blue"},
	StatusShipped:    {Label: "Dikirim", Color: "indigo"},
	StatusDelivered:  {Label: "Selesai", Color: "green"},
	StatusCancelled:  {Label: "Dibatalkan", Color: "red"},
}

var unknownBadge = StatusBadge{Label: "Tidak diketahui", Color: "gray"}

// Badge maps any status, unknown values included, to a display badge.
func Badge(s Status) StatusBadge {
	if b, ok := badges[s]; ok {
		return b
	}
	return unknownBadge
}

// StatusChange is one validated move of an order through the lifecycle. Stores apply
// it only while the order is still in From.
type StatusChange struct {
	From           Status
	To             Status
	Record         StatusRecord
	TrackingNumber string
}
