// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// CartLine represents one product entry in a user's cart. A user has at
// most one line per product; adding the same product again merges
// quantities.
type CartLine struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for CartLine model
func (CartLine) TableName() string {
	return "cart_lines"
}

// ProductSnapshot carries the live product fields rendered in a cart view.
type ProductSnapshot struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	ImageURL     string `json:"image_url"`
	CurrentStock int    `json:"current_stock"`
	StoreID      uint   `json:"store_id"`
}

// ItemResponse represents one cart line joined with its product.
type ItemResponse struct {
	LineID       uint            `json:"id"`
	ProductID    uint            `json:"product_id"`
	Product      ProductSnapshot `json:"product"`
	Quantity     int             `json:"quantity"`
	ItemSubtotal int64           `json:"item_subtotal"`
}

// CartResponse is the full cart view returned to the client.
type CartResponse struct {
	Items          []ItemResponse `json:"items"`
	TotalCartPrice int64          `json:"total_cart_price"`
}
