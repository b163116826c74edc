package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name      string    `bson:"name" json:"name" gorm:"size:128"`
	Slug      string    `bson:"slug" json:"slug" gorm:"size:160;uniqueIndex"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Product is read-only from the admin order screens; it is only looked up when an
// order is created.
type Product struct {
	ID         int64           `bson:"_id" json:"id" gorm:"primaryKey"`
	Name       string          `bson:"name" json:"name" gorm:"size:128;index"`
	Slug       string          `bson:"slug" json:"slug" gorm:"size:160;uniqueIndex"`
	CategoryID int64           `bson:"category_id" json:"category_id" gorm:"index"`
	Category   string          `bson:"category" json:"category" gorm:"size:128"`
	Price      decimal.Decimal `bson:"price" json:"price" gorm:"type:decimal(14,2)"`
	Stock      int             `bson:"stock" json:"stock"`
	Unit       string          `bson:"unit" json:"unit" gorm:"size:16"`
	Active     bool            `bson:"active" json:"active" gorm:"index"`
	Image      string          `bson:"image,omitempty" json:"image,omitempty" gorm:"size:255"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `bson:"updated_at" json:"updated_at"`
}

const LowStockThreshold = 10

func (p *Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}
