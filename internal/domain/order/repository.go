// internal/domain/order/repository.go
package order

import (
	"context"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
)

// Repository persists orders and their lines. FindByID loads lines and
// returns (nil, nil) when no order matches.
type Repository interface {
	Create(ctx context.Context, ord *Order) error
	FindByID(ctx context.Context, id uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint) ([]Order, error)
	ListByStore(ctx context.Context, storeID uint) ([]Order, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

// CartAccess is the slice of the cart service checkout needs: the priced
// cart view and the post-checkout clear. Both join the surrounding
// transaction through ctx.
type CartAccess interface {
	GetCart(ctx context.Context, userID uint) (*cart.CartResponse, error)
	ClearCart(ctx context.Context, userID uint) error
}

// TxManager runs fn inside a database transaction. Repository and reader
// calls made with the ctx passed to fn join that transaction; returning an
// error rolls everything back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
