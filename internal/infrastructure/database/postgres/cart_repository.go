// internal/infrastructure/database/postgres/cart_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// CartRepository implements cart.Repository on PostgreSQL.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*cart.CartLine, error) {
	var line cart.CartLine
	err := dbFromContext(ctx, r.db).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart line: %w", err)
	}
	return &line, nil
}

func (r *CartRepository) FindByID(ctx context.Context, userID, lineID uint) (*cart.CartLine, error) {
	var line cart.CartLine
	err := dbFromContext(ctx, r.db).
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve cart line: %w", err)
	}
	return &line, nil
}

func (r *CartRepository) ListByUser(ctx context.Context, userID uint) ([]cart.CartLine, error) {
	var lines []cart.CartLine
	err := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	return lines, nil
}

func (r *CartRepository) Create(ctx context.Context, line *cart.CartLine) error {
	if err := dbFromContext(ctx, r.db).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, lineID uint, quantity int) error {
	err := dbFromContext(ctx, r.db).
		Model(&cart.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
	if err != nil {
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, lineID uint) error {
	err := dbFromContext(ctx, r.db).
		Delete(&cart.CartLine{}, lineID).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (r *CartRepository) DeleteByUser(ctx context.Context, userID uint) error {
	err := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&cart.CartLine{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
