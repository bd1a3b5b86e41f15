package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryBlackCat DeliveryMethod = "黑貓"
	DeliverySeven    DeliveryMethod = "7-11 交貨便"
	DeliveryInPerson DeliveryMethod = "面交"
)

func ValidDelivery(d DeliveryMethod) bool {
	switch d {
	case DeliveryBlackCat, DeliverySeven, DeliveryInPerson:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at purchase time. UserID carries no
// foreign key on purpose: deleting an account keeps its orders as history, with
// the id left dangling. Only Paid and Done change after creation, and only by
// admin action.
type Order struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"index;not null" json:"user_id"`
	Items     []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Delivery  DeliveryMethod `gorm:"type:varchar(20);not null" json:"delivery"`
	Address   string         `gorm:"not null" json:"address"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"not null" json:"phone"`
	Note      string         `gorm:"default:''" json:"note"`
	Paid      bool           `gorm:"default:false" json:"paid"`
	Done      bool           `gorm:"default:false" json:"done"`
	CreatedAt time.Time      `json:"created_at"`
}

// OrderItem denormalizes the product at purchase time so later catalog edits
// cannot rewrite history.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"-"`
	OrderID      uint            `gorm:"index" json:"-"`
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
}
