package dto

import (
	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	UserID    int64  `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

type UpdateStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	Notes          string `json:"notes" binding:"max=512"`
	TrackingNumber string `json:"tracking_number" binding:"max=64"`
}

type UpdateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,max=64"`
}

type CreateOrderItem struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=1000"`
}

type CreateOrderRequest struct {
	UserID          int64             `json:"user_id" binding:"required,gt=0"`
	Items           []CreateOrderItem `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string            `json:"shipping_address" binding:"required,max=512"`
	ShippingCost    decimal.Decimal   `json:"shipping_cost"`
	TaxAmount       decimal.Decimal   `json:"tax_amount"`
	Notes           string            `json:"notes" binding:"max=1024"`
}

type BulkOrderRequest struct {
	Action   string  `json:"action" binding:"required"`
	OrderIDs []int64 `json:"order_ids" binding:"required,min=1,dive,gt=0"`
	Status   string  `json:"status,omitempty"`
}

type BulkUserRequest struct {
	Action  string  `json:"action" binding:"required"`
	UserIDs []int64 `json:"user_ids" binding:"required,min=1,dive,gt=0"`
}

type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports the outcome of a bulk action item by item.
type BulkResult struct {
	Action      string        `json:"action"`
	Requested   int           `json:"requested"`
	Processed   int           `json:"processed"`
	Failed      []BulkFailure `json:"failed"`
	DownloadURL string        `json:"download_url,omitempty"`
}

func (r *BulkResult) Fail(id int64, err error) {
	r.Failed = append(r.Failed, BulkFailure{ID: id, Error: err.Error()})
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Phone    string `json:"phone" binding:"max=32"`
	Address  string `json:"address" binding:"max=512"`
	Role     string `json:"role" binding:"required,oneof=admin buyer"`
	Active   *bool  `json:"active"`
}

type UpdateUserRequest struct {
	Name     string `json:"name" binding:"omitempty,max=128"`
	Email    string `json:"email" binding:"omitempty,email,max=191"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
	Phone    string `json:"phone" binding:"max=32"`
	Address  string `json:"address" binding:"max=512"`
	Role     string `json:"role" binding:"omitempty,oneof=admin buyer"`
	Active   *bool  `json:"active"`
}
