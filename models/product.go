package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductCategory string

const (
	CategoryAdult    ProductCategory = "成蟲"
	CategoryLarva    ProductCategory = "幼蟲"
	CategorySpecimen ProductCategory = "標本"
)

// ValidCategory reports whether c is one of the sellable categories.
func ValidCategory(c ProductCategory) bool {
	switch c {
	case CategoryAdult, CategoryLarva, CategorySpecimen:
		return true
	}
	return false
}

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image       string          `gorm:"not null" json:"image"`
	Description string          `gorm:"not null" json:"description"`
	Category    ProductCategory `gorm:"type:varchar(20);not null" json:"category"`
	// Sell marks the product as listed. Delisted products are indistinguishable
	// from missing ones to members.
	Sell bool `gorm:"not null" json:"sell"`
	// Stock must never go negative; it is decremented only inside the checkout
	// transaction, never by cart edits.
	Stock     int       `gorm:"not null;check:stock >= 0" json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
