// internal/domain/order/entity.go
package order

import (
	"time"
)

// Order status values.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Order represents a single-store order. A checkout that spans several
// stores produces one Order per store.
type Order struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	UserID     uint        `json:"user_id" gorm:"not null;index"`
	StoreID    uint        `json:"store_id" gorm:"not null;index"`
	TotalPrice int64       `json:"total_price" gorm:"not null"`
	Status     string      `json:"status" gorm:"size:20;default:'pending';index"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Lines      []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Order model
func (Order) TableName() string {
	return "orders"
}

// OrderLine records one product in an order. PriceAtPurchase is the unit
// price snapshotted at checkout; later catalog price changes never touch it.
type OrderLine struct {
	ID              uint  `json:"id" gorm:"primaryKey"`
	OrderID         uint  `json:"order_id" gorm:"not null;index"`
	ProductID       uint  `json:"product_id" gorm:"not null;index"`
	Quantity        int   `json:"quantity" gorm:"not null"`
	PriceAtPurchase int64 `json:"price_at_purchase" gorm:"not null"`
}

// TableName returns the table name for OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// CanTransitionTo reports whether the order status may move to target.
// Cancelling is only possible before shipment; a cancelled order keeps
// its stock deductions.
func (o *Order) CanTransitionTo(target string) bool {
	switch o.Status {
	case StatusPending:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	default:
		return false
	}
}

// PlacedOrder summarizes one order created by a checkout.
type PlacedOrder struct {
	OrderID    uint   `json:"order_id"`
	StoreID    uint   `json:"store_id"`
	TotalPrice int64  `json:"total_price"`
	Status     string `json:"status"`
}
