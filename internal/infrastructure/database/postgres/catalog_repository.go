// internal/infrastructure/database/postgres/catalog_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository implements product.Reader on PostgreSQL.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	var prod product.Product
	err := dbFromContext(ctx, r.db).First(&prod, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", err)
	}
	return &prod, nil
}

func (r *CatalogRepository) GetByIDs(ctx context.Context, ids []uint) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []product.Product
	err := dbFromContext(ctx, r.db).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}
	return products, nil
}

// LockByIDs fetches the rows with FOR UPDATE. Ordering by ID keeps the lock
// acquisition order identical across concurrent transactions, which rules
// out lock-order deadlocks between overlapping checkouts.
func (r *CatalogRepository) LockByIDs(ctx context.Context, ids []uint) ([]product.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []product.Product
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	return products, nil
}

// DecrementStock atomically deducts stock. The WHERE guard makes the update
// a no-op when stock is short, even without a prior lock.
func (r *CatalogRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	result := dbFromContext(ctx, r.db).
		Model(&product.Product{}).
		Where("id = ? AND stock_quantity >= ?", id, quantity).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.Conflict(apperror.CodeInsufficientStock,
			"insufficient stock for product %d", id)
	}
	return nil
}
