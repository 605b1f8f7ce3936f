package cart_test

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/pkg/apperror"
)

// =====================
// In-memory fakes
// =====================

type readerFake struct {
	products map[uint]product.Product
}

func newReaderFake(products ...product.Product) *readerFake {
	f := &readerFake{products: map[uint]product.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *readerFake) GetByID(_ context.Context, id uint) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *readerFake) GetByIDs(_ context.Context, ids []uint) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *readerFake) LockByIDs(ctx context.Context, ids []uint) ([]product.Product, error) {
	return f.GetByIDs(ctx, ids)
}

func (f *readerFake) DecrementStock(_ context.Context, id uint, quantity int) error {
	p, ok := f.products[id]
	if !ok || p.StockQuantity < quantity {
		return apperror.Conflict(apperror.CodeInsufficientStock, "insufficient stock")
	}
	p.StockQuantity -= quantity
	f.products[id] = p
	return nil
}

func (f *readerFake) clone() map[uint]product.Product {
	c := make(map[uint]product.Product, len(f.products))
	for k, v := range f.products {
		c[k] = v
	}
	return c
}

type cartRepoFake struct {
	lines  map[uint]cart.CartLine
	nextID uint
}

func newCartRepoFake() *cartRepoFake {
	return &cartRepoFake{lines: map[uint]cart.CartLine{}, nextID: 1}
}

func (f *cartRepoFake) FindByUserAndProduct(_ context.Context, userID, productID uint) (*cart.CartLine, error) {
	for _, l := range f.lines {
		if l.UserID == userID && l.ProductID == productID {
			line := l
			return &line, nil
		}
	}
	return nil, nil
}

func (f *cartRepoFake) FindByID(_ context.Context, userID, lineID uint) (*cart.CartLine, error) {
	l, ok := f.lines[lineID]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	line := l
	return &line, nil
}

func (f *cartRepoFake) ListByUser(_ context.Context, userID uint) ([]cart.CartLine, error) {
	var out []cart.CartLine
	for _, l := range f.lines {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *cartRepoFake) Create(_ context.Context, line *cart.CartLine) error {
	line.ID = f.nextID
	f.nextID++
	f.lines[line.ID] = *line
	return nil
}

func (f *cartRepoFake) UpdateQuantity(_ context.Context, lineID uint, quantity int) error {
	l := f.lines[lineID]
	l.Quantity = quantity
	f.lines[lineID] = l
	return nil
}

func (f *cartRepoFake) Delete(_ context.Context, lineID uint) error {
	delete(f.lines, lineID)
	return nil
}

func (f *cartRepoFake) DeleteByUser(_ context.Context, userID uint) error {
	for id, l := range f.lines {
		if l.UserID == userID {
			delete(f.lines, id)
		}
	}
	return nil
}

func (f *cartRepoFake) clone() map[uint]cart.CartLine {
	c := make(map[uint]cart.CartLine, len(f.lines))
	for k, v := range f.lines {
		c[k] = v
	}
	return c
}

// txFake snapshots fake state before fn and restores it when fn fails,
// mimicking a rollback.
type txFake struct {
	repo     *cartRepoFake
	products *readerFake
}

func (f *txFake) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	lines := f.repo.clone()
	prods := f.products.clone()
	if err := fn(ctx); err != nil {
		f.repo.lines = lines
		f.products.products = prods
		return err
	}
	return nil
}

func newCartService(products ...product.Product) (*cart.Service, *cartRepoFake, *readerFake) {
	repo := newCartRepoFake()
	reader := newReaderFake(products...)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := cart.NewService(repo, reader, &txFake{repo: repo, products: reader}, logger)
	return svc, repo, reader
}

// =====================
// AddItem
// =====================

func TestAddItem_NewLine(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)

	view, err := svc.AddItem(context.Background(), 7, 1, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, int64(1000), view.Items[0].ItemSubtotal)
	assert.Equal(t, int64(1000), view.TotalCartPrice)
}

func TestAddItem_MergesQuantities(t *testing.T) {
	svc, repo, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, 7, 1, 3)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.Len(t, repo.lines, 1)
}

func TestAddItem_MergedQuantityExceedsStock(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 4, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 3)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, 7, 1, 2)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// Original line untouched
	view, err := svc.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestAddItem_InactiveProduct(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 4, IsActive: false, StoreID: 1},
	)

	_, err := svc.AddItem(context.Background(), 7, 1, 1)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestAddItem_NonPositiveQuantity(t *testing.T) {
	svc, _, _ := newCartService()

	_, err := svc.AddItem(context.Background(), 7, 1, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))

	_, err = svc.AddItem(context.Background(), 7, 1, -2)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

// =====================
// GetCart
// =====================

func TestGetCart_Empty(t *testing.T) {
	svc, _, _ := newCartService()

	view, err := svc.GetCart(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.TotalCartPrice)
}

func TestGetCart_ReflectsCurrentPrices(t *testing.T) {
	svc, _, reader := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	// Seller raises the price; the cart view follows the live catalog.
	p := reader.products[1]
	p.Price = 800
	reader.products[1] = p

	view, err := svc.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), view.TotalCartPrice)
	assert.Equal(t, int64(800), view.Items[0].Product.Price)
}

func TestGetCart_ItemShape(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 3, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)

	view, err := svc.AddItem(context.Background(), 7, 3, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(3), view.Items[0].ProductID)

	raw, err := json.Marshal(view.Items[0])
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"id", "product_id", "product", "quantity", "item_subtotal"} {
		assert.Contains(t, fields, key)
	}
}

func TestGetCart_SkipsMissingProducts(t *testing.T) {
	svc, _, reader := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
		product.Product{ID: 2, Name: "Mug", Price: 1200, StockQuantity: 5, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, 7, 2, 1)
	require.NoError(t, err)

	delete(reader.products, 2)

	view, err := svc.GetCart(ctx, 7)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, uint(1), view.Items[0].Product.ID)
	assert.Equal(t, int64(500), view.TotalCartPrice)
}

// =====================
// UpdateQuantity / RemoveItem / ClearCart
// =====================

func TestUpdateQuantity_SetsNewQuantity(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	lineID := view.Items[0].LineID

	view, err = svc.UpdateQuantity(ctx, 7, lineID, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, view.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroDeletesLine(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	view, err = svc.UpdateQuantity(ctx, 7, view.Items[0].LineID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestUpdateQuantity_ExceedsStock(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 3, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, 7, view.Items[0].LineID, 9)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateQuantity_OrphanedLineIsDropped(t *testing.T) {
	svc, repo, reader := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	lineID := view.Items[0].LineID

	delete(reader.products, 1)

	_, err = svc.UpdateQuantity(ctx, 7, lineID, 3)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	// The deletion survives the failed call.
	assert.Empty(t, repo.lines)
}

func TestUpdateQuantity_InactiveProductKeepsLine(t *testing.T) {
	svc, repo, reader := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)
	lineID := view.Items[0].LineID

	p := reader.products[1]
	p.IsActive = false
	reader.products[1] = p

	_, err = svc.UpdateQuantity(ctx, 7, lineID, 3)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, apperror.CodeUnavailable, appErr.Code)
	assert.Len(t, repo.lines, 1)
}

func TestUpdateQuantity_OtherUsersLine(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	_, err = svc.UpdateQuantity(ctx, 99, view.Items[0].LineID, 3)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestRemoveItem(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	view, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	view, err = svc.RemoveItem(ctx, 7, view.Items[0].LineID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.RemoveItem(ctx, 7, 42)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestClearCart_Idempotent(t *testing.T) {
	svc, _, _ := newCartService(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 7, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, 7))
	require.NoError(t, svc.ClearCart(ctx, 7))

	view, err := svc.GetCart(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
