package models

import "time"

type Role int

const (
	RoleMember Role = 0
	RoleAdmin  Role = 1
)

type User struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Account   string         `gorm:"uniqueIndex;not null" json:"account"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"` // bcrypt hash, set via auth.HashPassword only
	Role      Role           `gorm:"default:0" json:"role"`
	Avatar    string         `json:"avatar"`
	Tokens    []SessionToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Cart      []CartItem     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart,omitempty"`
	Likes     []LikeItem     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CartQuantity is the derived total across all cart lines. Recomputed on read,
// never persisted.
func (u *User) CartQuantity() int {
	total := 0
	for _, item := range u.Cart {
		total += item.Quantity
	}
	return total
}

// SessionToken is one live device session. The row itself is the slot: login
// inserts a row, rotation overwrites the token value in place, logout deletes
// by value. Duplicate token values across rows are harmless.
type SessionToken struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"index;not null" json:"-"`
	Token     string    `gorm:"type:text;not null" json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"-"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product;not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

type LikeItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    string    `gorm:"uniqueIndex:idx_like_user_product;not null" json:"-"`
	ProductID uint      `gorm:"uniqueIndex:idx_like_user_product;not null" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `json:"created_at"`
}
