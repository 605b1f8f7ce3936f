// internal/domain/product/reader.go
package product

import "context"

// Reader is the read-mostly catalog contract consumed by the cart and order
// services. GetByIDs is a batch fetch so multi-store checkout validation does
// not degenerate into per-line queries. LockByIDs returns the same rows but
// takes row-level locks; it is only meaningful inside a transaction started
// by a TxManager. DecrementStock is the single mutation the checkout path is
// allowed to perform on the catalog.
//
// GetByID returns (nil, nil) for a missing product; the batch methods
// silently omit missing IDs from their results.
type Reader interface {
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]Product, error)
	LockByIDs(ctx context.Context, ids []uint) ([]Product, error)
	DecrementStock(ctx context.Context, id uint, quantity int) error
}
