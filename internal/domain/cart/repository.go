// internal/domain/cart/repository.go
package cart

import "context"

// Repository persists cart lines. Find methods return (nil, nil) when no
// line matches.
type Repository interface {
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*CartLine, error)
	FindByID(ctx context.Context, userID, lineID uint) (*CartLine, error)
	ListByUser(ctx context.Context, userID uint) ([]CartLine, error)
	Create(ctx context.Context, line *CartLine) error
	UpdateQuantity(ctx context.Context, lineID uint, quantity int) error
	Delete(ctx context.Context, lineID uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

// TxManager runs fn inside a database transaction. Repository calls made
// with the ctx passed to fn join that transaction; returning an error
// rolls everything back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
