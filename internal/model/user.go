package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	RoleBuyer = "buyer"
)

type User struct {
	ID           int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name         string    `bson:"name" json:"name" gorm:"size:128;index"`
	Email        string    `bson:"email" json:"email" gorm:"size:191;uniqueIndex"`
	PasswordHash string    `bson:"password_hash" json:"-" gorm:"size:255"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty" gorm:"size:32"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty" gorm:"size:512"`
	Role         string    `bson:"role" json:"role" gorm:"size:32;index"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// SetPassword stores the bcrypt hash of the plaintext password.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) PasswordMatches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CustomerStats are computed from orders and never stored on the user.
type CustomerStats struct {
	OrdersCount int64           `bson:"orders_count" json:"orders_count"`
	TotalSpent  decimal.Decimal `bson:"total_spent" json:"total_spent"`
}

// Permissions
const (
	PermOrdersView    = "orders.view"
	PermOrdersManage  = "orders.manage"
	PermUsersView     = "users.view"
	PermUsersManage   = "users.manage"
	PermReportsView   = "reports.view"
	PermReportsExport = "reports.export"
	PermCatalogView   = "catalog.view"
	PermCatalogManage = "catalog.manage"
)

var AllPermissions = []string{
	PermOrdersView,
	PermOrdersManage,
	PermUsersView,
	PermUsersManage,
	PermReportsView,
	PermReportsExport,
	PermCatalogView,
	PermCatalogManage,
}

type Role struct {
	ID          int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name        string    `bson:"name" json:"name" gorm:"size:32;uniqueIndex"`
	Permissions []string  `bson:"permissions" json:"permissions" gorm:"serializer:json"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
