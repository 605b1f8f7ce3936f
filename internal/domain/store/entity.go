// internal/domain/store/entity.go
package store

import (
	"time"

	"gorm.io/gorm"
)

// Store represents a seller storefront
type Store struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	OwnerID     uint           `json:"owner_id" gorm:"not null;index"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Store model
func (Store) TableName() string {
	return "stores"
}

// Creation request lifecycle states.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// CreationRequest represents a user's application to open a store.
// Approval grants the seller role; rejection of a later request does
// not revoke a previously granted one.
type CreationRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	StoreName string    `json:"store_name" gorm:"size:100;not null"`
	Pitch     string    `json:"pitch" gorm:"type:text"`
	Status    string    `json:"status" gorm:"size:20;default:'pending';index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for CreationRequest model
func (CreationRequest) TableName() string {
	return "store_creation_requests"
}
