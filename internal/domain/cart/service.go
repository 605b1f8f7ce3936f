// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
)

// Service handles cart business logic
type Service struct {
	repo     Repository
	products product.Reader
	tx       TxManager
	logger   *logrus.Logger
}

// NewService creates a new cart service
func NewService(repo Repository, products product.Reader, tx TxManager, logger *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		tx:       tx,
		logger:   logger,
	}
}

// AddItem adds a product to the user's cart, merging with any existing line
// for the same product. The stock check covers the merged quantity and runs
// under a row lock so concurrent adds cannot oversell.
func (s *Service) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartResponse, error) {
	if quantity <= 0 {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "quantity must be positive")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.products.LockByIDs(ctx, []uint{productID})
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if len(locked) == 0 || !locked[0].IsActive {
			return apperror.NotFound(apperror.CodeNotFound, "product not found")
		}
		prod := locked[0]

		line, err := s.repo.FindByUserAndProduct(ctx, userID, productID)
		if err != nil {
			return fmt.Errorf("failed to look up cart line: %w", err)
		}

		newQuantity := quantity
		if line != nil {
			newQuantity += line.Quantity
		}
		if newQuantity > prod.StockQuantity {
			return apperror.Conflict(apperror.CodeInsufficientStock,
				"insufficient stock for %s: requested %d, available %d",
				prod.Name, newQuantity, prod.StockQuantity)
		}

		if line != nil {
			return s.repo.UpdateQuantity(ctx, line.ID, newQuantity)
		}
		return s.repo.Create(ctx, &CartLine{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// GetCart returns the user's cart joined with live product data. Lines whose
// product has disappeared are skipped rather than failing the whole view.
func (s *Service) GetCart(ctx context.Context, userID uint) (*CartResponse, error) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}

	response := &CartResponse{Items: []ItemResponse{}}
	if len(lines) == 0 {
		return response, nil
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart products: %w", err)
	}
	byID := make(map[uint]product.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, line := range lines {
		prod, ok := byID[line.ProductID]
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"user_id":    userID,
				"product_id": line.ProductID,
			}).Warn("cart line references missing product, skipping")
			continue
		}

		subtotal := int64(line.Quantity) * prod.Price
		response.Items = append(response.Items, ItemResponse{
			LineID:    line.ID,
			ProductID: line.ProductID,
			Product: ProductSnapshot{
				ID:           prod.ID,
				Name:         prod.Name,
				Price:        prod.Price,
				ImageURL:     prod.ImageURL,
				CurrentStock: prod.StockQuantity,
				StoreID:      prod.StoreID,
			},
			Quantity:     line.Quantity,
			ItemSubtotal: subtotal,
		})
		response.TotalCartPrice += subtotal
	}

	return response, nil
}

// UpdateQuantity sets the quantity of one cart line. Zero removes the line.
// A line whose product row no longer exists is removed and reported as
// missing; an inactive product keeps its line but cannot be updated.
func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID uint, quantity int) (*CartResponse, error) {
	if quantity < 0 {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "quantity cannot be negative")
	}

	var orphaned bool
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		line, err := s.repo.FindByID(ctx, userID, lineID)
		if err != nil {
			return fmt.Errorf("failed to look up cart line: %w", err)
		}
		if line == nil {
			return apperror.NotFound(apperror.CodeNotFound, "cart line not found")
		}

		if quantity == 0 {
			return s.repo.Delete(ctx, line.ID)
		}

		locked, err := s.products.LockByIDs(ctx, []uint{line.ProductID})
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}
		if len(locked) == 0 {
			// Orphaned line. The closure must return nil so the deletion
			// commits; the NotFound is surfaced after the transaction.
			if delErr := s.repo.Delete(ctx, line.ID); delErr != nil {
				return fmt.Errorf("failed to drop orphaned cart line: %w", delErr)
			}
			orphaned = true
			return nil
		}
		prod := locked[0]

		if !prod.IsActive {
			return apperror.Conflict(apperror.CodeUnavailable,
				"product %s is not available", prod.Name)
		}
		if quantity > prod.StockQuantity {
			return apperror.Conflict(apperror.CodeInsufficientStock,
				"insufficient stock for %s: requested %d, available %d",
				prod.Name, quantity, prod.StockQuantity)
		}

		return s.repo.UpdateQuantity(ctx, line.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	if orphaned {
		return nil, apperror.NotFound(apperror.CodeNotFound, "product no longer available")
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem deletes one line from the user's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, lineID uint) (*CartResponse, error) {
	line, err := s.repo.FindByID(ctx, userID, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up cart line: %w", err)
	}
	if line == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "cart line not found")
	}

	if err := s.repo.Delete(ctx, line.ID); err != nil {
		return nil, fmt.Errorf("failed to delete cart line: %w", err)
	}

	return s.GetCart(ctx, userID)
}

// ClearCart removes every line from the user's cart. Clearing an empty cart
// succeeds.
func (s *Service) ClearCart(ctx context.Context, userID uint) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
