// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a sellable catalog item owned by a store.
type Product struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Description   string         `gorm:"size:500" json:"description"`
	Price         int64          `gorm:"not null" json:"price"` // Price per unit in cents
	ImageURL      string         `gorm:"size:500" json:"image_url"`
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`
	IsActive      bool           `gorm:"default:true" json:"is_active"`
	StoreID       uint           `gorm:"not null;index" json:"store_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// IsInStock reports whether the product has any sellable units left.
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// IsPurchasable reports whether the product can be added to a cart.
func (p *Product) IsPurchasable() bool {
	return p.IsActive
}

// GetFormattedPrice returns the unit price in major currency units.
func (p *Product) GetFormattedPrice() float64 {
	return float64(p.Price) / 100
}
