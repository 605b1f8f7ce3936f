// internal/domain/order/service.go
package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
)

// Service handles order placement and fulfillment.
type Service struct {
	repo     Repository
	carts    CartAccess
	products product.Reader
	tx       TxManager
	logger   *logrus.Logger
}

// NewService creates a new order service
func NewService(repo Repository, carts CartAccess, products product.Reader, tx TxManager, logger *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		carts:    carts,
		products: products,
		tx:       tx,
		logger:   logger,
	}
}

// PlaceOrder converts the user's cart into one order per store, all inside
// a single transaction. Unit prices are snapshotted from the cart view read
// at the start of the transaction; stock and availability are re-validated
// against freshly locked product rows. Any failure rolls back every order
// and stock change, and the cart is cleared only when the whole checkout
// commits.
func (s *Service) PlaceOrder(ctx context.Context, userID uint) ([]PlacedOrder, error) {
	var placed []PlacedOrder

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		view, err := s.carts.GetCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to read cart: %w", err)
		}
		if len(view.Items) == 0 {
			return apperror.Invalid(apperror.CodeEmptyCart, "cart is empty")
		}

		byStore := make(map[uint][]cart.ItemResponse)
		allIDs := make([]uint, 0, len(view.Items))
		for _, item := range view.Items {
			if item.Product.StoreID == 0 {
				// Data corruption upstream, not a client mistake. Log the
				// specifics and surface only a generic failure.
				s.logger.WithFields(logrus.Fields{
					"operation":  "place_order",
					"code":       apperror.CodeMalformedCartLine,
					"user_id":    userID,
					"product_id": item.Product.ID,
				}).Error("cart line references product without store")
				return apperror.Internal(
					fmt.Errorf("product %d has no store", item.Product.ID))
			}
			byStore[item.Product.StoreID] = append(byStore[item.Product.StoreID], item)
			allIDs = append(allIDs, item.Product.ID)
		}

		// Lock every involved product up front in one batch. The reader
		// locks in ascending ID order, so concurrent checkouts touching
		// overlapping products cannot deadlock.
		locked, err := s.products.LockByIDs(ctx, allIDs)
		if err != nil {
			return fmt.Errorf("failed to lock products: %w", err)
		}
		lockedByID := make(map[uint]product.Product, len(locked))
		for _, p := range locked {
			lockedByID[p.ID] = p
		}

		storeIDs := make([]uint, 0, len(byStore))
		for storeID := range byStore {
			storeIDs = append(storeIDs, storeID)
		}
		sort.Slice(storeIDs, func(i, j int) bool { return storeIDs[i] < storeIDs[j] })

		for _, storeID := range storeIDs {
			items := byStore[storeID]

			var total int64
			lines := make([]OrderLine, 0, len(items))
			for _, item := range items {
				prod, ok := lockedByID[item.Product.ID]
				if !ok || !prod.IsActive {
					return apperror.Conflict(apperror.CodeUnavailable,
						"product %s is no longer available", item.Product.Name)
				}
				if item.Quantity > prod.StockQuantity {
					return apperror.Conflict(apperror.CodeInsufficientStock,
						"insufficient stock for %s: requested %d, available %d",
						prod.Name, item.Quantity, prod.StockQuantity)
				}

				// Charge the snapshot price the user saw in the cart view,
				// not the current catalog price.
				total += item.ItemSubtotal
				lines = append(lines, OrderLine{
					ProductID:       item.Product.ID,
					Quantity:        item.Quantity,
					PriceAtPurchase: item.Product.Price,
				})
			}

			ord := &Order{
				UserID:     userID,
				StoreID:    storeID,
				TotalPrice: total,
				Status:     StatusPending,
				Lines:      lines,
			}
			if err := s.repo.Create(ctx, ord); err != nil {
				return fmt.Errorf("failed to create order for store %d: %w", storeID, err)
			}

			for _, line := range lines {
				if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return fmt.Errorf("failed to decrement stock for product %d: %w", line.ProductID, err)
				}
			}

			placed = append(placed, PlacedOrder{
				OrderID:    ord.ID,
				StoreID:    storeID,
				TotalPrice: total,
				Status:     ord.Status,
			})
		}

		if err := s.carts.ClearCart(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"orders":  len(placed),
	}).Info("checkout completed")

	return placed, nil
}

// GetOrder returns one of the user's orders with its lines.
func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if ord == nil || ord.UserID != userID {
		return nil, apperror.NotFound(apperror.CodeNotFound, "order not found")
	}
	return ord, nil
}

// ListUserOrders returns the user's orders, newest first.
func (s *Service) ListUserOrders(ctx context.Context, userID uint) ([]Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListStoreOrders returns the orders received by a store, newest first.
func (s *Service) ListStoreOrders(ctx context.Context, storeID uint) ([]Order, error) {
	orders, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list store orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order owned by the given store to a new status.
// Only forward transitions are allowed; cancelling never restores stock.
func (s *Service) UpdateStatus(ctx context.Context, storeID, orderID uint, status string) (*Order, error) {
	if status != StatusShipped && status != StatusDelivered && status != StatusCancelled {
		return nil, apperror.Invalid(apperror.CodeInvalidInput, "invalid order status: %s", status)
	}

	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	if ord == nil || ord.StoreID != storeID {
		return nil, apperror.NotFound(apperror.CodeNotFound, "order not found")
	}

	if !ord.CanTransitionTo(status) {
		return nil, apperror.Conflict(apperror.CodeConflict,
			"cannot move order from %s to %s", ord.Status, status)
	}

	if err := s.repo.UpdateStatus(ctx, ord.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	ord.Status = status
	return ord, nil
}
