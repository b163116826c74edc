// order.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `bson:"_id" json:"id" gorm:"primaryKey"`
	OrderNumber     string          `bson:"order_number" json:"order_number" gorm:"size:32;uniqueIndex"`
	UserID          int64           `bson:"user_id" json:"user_id" gorm:"index"`
	CustomerName    string          `bson:"customer_name" json:"customer_name" gorm:"size:128;index"`
	CustomerEmail   string          `bson:"customer_email" json:"customer_email" gorm:"size:191;index"`
	Status          Status          `bson:"status" json:"status" gorm:"size:16;index"`
	Items           []OrderItem     `bson:"items" json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingCost    decimal.Decimal `bson:"shipping_cost" json:"shipping_cost" gorm:"type:decimal(14,2)"`
	TaxAmount       decimal.Decimal `bson:"tax_amount" json:"tax_amount" gorm:"type:decimal(14,2)"`
	TotalAmount     decimal.Decimal `bson:"total_amount" json:"total_amount" gorm:"type:decimal(14,2);index"`
	TrackingNumber  string          `bson:"tracking_number,omitempty" json:"tracking_number,omitempty" gorm:"size:64;index"`
	InvoiceNumber   string          `bson:"invoice_number,omitempty" json:"invoice_number,omitempty" gorm:"size:40"`
	ShippingAddress string          `bson:"shipping_address" json:"shipping_address" gorm:"size:512"`
	Notes           string          `bson:"notes,omitempty" json:"notes,omitempty" gorm:"size:1024"`
	History         []StatusRecord  `bson:"history" json:"history,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `bson:"created_at" json:"created_at" gorm:"index"`
	ShippedAt       *time.Time      `bson:"shipped_at,omitempty" json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	UpdatedAt       time.Time       `bson:"updated_at" json:"updated_at"`
}

// OrderItem captures the product price at the moment the order was placed.
type OrderItem struct {
	ID          int64           `bson:"-" json:"-" gorm:"primaryKey"`
	OrderID     int64           `bson:"-" json:"-" gorm:"index"`
	ProductID   int64           `bson:"product_id" json:"product_id"`
	ProductName string          `bson:"product_name" json:"product_name" gorm:"size:128"`
	Quantity    int             `bson:"quantity" json:"quantity"`
	Price       decimal.Decimal `bson:"price" json:"price" gorm:"type:decimal(14,2)"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type StatusRecord struct {
	ID        int64     `bson:"-" json:"-" gorm:"primaryKey"`
	OrderID   int64     `bson:"-" json:"-" gorm:"index"`
	Status    Status    `bson:"status" json:"status" gorm:"size:16"`
	Notes     string    `bson:"notes" json:"notes" gorm:"size:512"`
	ActorID   int64     `bson:"actor_id" json:"actor_id"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`

	// Marks the latest entry of the history
	Current bool `bson:"current" json:"current"`
}

func (StatusRecord) TableName() string { return "order_status_histories" }

// ComputeTotal returns the sum of the line subtotals plus shipping and tax.
func ComputeTotal(items []OrderItem, shipping, tax decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Add(shipping).Add(tax)
}

// ItemsSubtotal is the total before shipping and tax.
func (o *Order) ItemsSubtotal() decimal.Decimal {
	return ComputeTotal(o.Items, decimal.Zero, decimal.Zero)
}

// CurrentRecord returns the history entry flagged as current, or nil.
func (o *Order) CurrentRecord() *StatusRecord {
	for i := range o.History {
		if o.History[i].Current {
			return &o.History[i]
		}
	}
	return nil
}

// Deletable reports whether the order may be removed. Only cancelled orders qualify.
func (o *Order) Deletable() bool {
	return o.Status == StatusCancelled
}
