// internal/infrastructure/database/postgres/order_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/domain/order"
	"gorm.io/gorm"
)

// OrderRepository implements order.Repository on PostgreSQL.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order together with its lines in one insert graph.
func (r *OrderRepository) Create(ctx context.Context, ord *order.Order) error {
	if err := dbFromContext(ctx, r.db).Create(ord).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var ord order.Order
	err := dbFromContext(ctx, r.db).
		Preload("Lines").
		First(&ord, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &ord, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]order.Order, error) {
	var orders []order.Order
	err := dbFromContext(ctx, r.db).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) ListByStore(ctx context.Context, storeID uint) ([]order.Order, error) {
	var orders []order.Order
	err := dbFromContext(ctx, r.db).
		Preload("Lines").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list store orders: %w", err)
	}
	return orders, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	err := dbFromContext(ctx, r.db).
		Model(&order.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}
