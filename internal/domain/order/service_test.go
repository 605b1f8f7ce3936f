package order_test

import (
	"context"
	"sort"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/order"
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

type orderRepoFake struct {
	orders map[uint]order.Order
	nextID uint
}

func newOrderRepoFake() *orderRepoFake {
	return &orderRepoFake{orders: map[uint]order.Order{}, nextID: 1}
}

func (f *orderRepoFake) Create(_ context.Context, ord *order.Order) error {
	ord.ID = f.nextID
	f.nextID++
	for i := range ord.Lines {
		ord.Lines[i].OrderID = ord.ID
	}
	f.orders[ord.ID] = *ord
	return nil
}

func (f *orderRepoFake) FindByID(_ context.Context, id uint) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	ord := o
	return &ord, nil
}

func (f *orderRepoFake) ListByUser(_ context.Context, userID uint) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *orderRepoFake) ListByStore(_ context.Context, storeID uint) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if o.StoreID == storeID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *orderRepoFake) UpdateStatus(_ context.Context, id uint, status string) error {
	o := f.orders[id]
	o.Status = status
	f.orders[id] = o
	return nil
}

// txFake snapshots every fake's state before fn and restores it all when fn
// fails, mimicking a rollback across carts, orders and stock.
type txFake struct {
	carts    *cartRepoFake
	orders   *orderRepoFake
	products *readerFake
}

func (f *txFake) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	lines := make(map[uint]cart.CartLine, len(f.carts.lines))
	for k, v := range f.carts.lines {
		lines[k] = v
	}
	orders := make(map[uint]order.Order, len(f.orders.orders))
	for k, v := range f.orders.orders {
		orders[k] = v
	}
	prods := make(map[uint]product.Product, len(f.products.products))
	for k, v := range f.products.products {
		prods[k] = v
	}
	nextOrderID := f.orders.nextID

	if err := fn(ctx); err != nil {
		f.carts.lines = lines
		f.orders.orders = orders
		f.products.products = prods
		f.orders.nextID = nextOrderID
		return err
	}
	return nil
}

type fixture struct {
	orders   *order.Service
	carts    *cart.Service
	cartRepo *cartRepoFake
	ordRepo  *orderRepoFake
	reader   *readerFake
}

func newFixture(products ...product.Product) *fixture {
	cartRepo := newCartRepoFake()
	ordRepo := newOrderRepoFake()
	reader := newReaderFake(products...)
	tx := &txFake{carts: cartRepo, orders: ordRepo, products: reader}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cartSvc := cart.NewService(cartRepo, reader, tx, logger)
	ordSvc := order.NewService(ordRepo, cartSvc, reader, tx, logger)
	return &fixture{orders: ordSvc, carts: cartSvc, cartRepo: cartRepo, ordRepo: ordRepo, reader: reader}
}

func (fx *fixture) addToCart(t *testing.T, userID, productID uint, qty int) {
	t.Helper()
	_, err := fx.carts.AddItem(context.Background(), userID, productID, qty)
	require.NoError(t, err)
}

// =====================
// PlaceOrder
// =====================

func TestPlaceOrder_SingleStore(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 3},
		product.Product{ID: 2, Name: "Mug", Price: 1200, StockQuantity: 5, IsActive: true, StoreID: 3},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 2)
	fx.addToCart(t, 7, 2, 1)

	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, uint(3), placed[0].StoreID)
	assert.Equal(t, int64(2200), placed[0].TotalPrice)
	assert.Equal(t, order.StatusPending, placed[0].Status)

	// Stock deducted, cart cleared
	assert.Equal(t, 8, fx.reader.products[1].StockQuantity)
	assert.Equal(t, 4, fx.reader.products[2].StockQuantity)
	assert.Empty(t, fx.cartRepo.lines)
}

func TestPlaceOrder_SplitsByStore(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
		product.Product{ID: 2, Name: "Mug", Price: 1200, StockQuantity: 5, IsActive: true, StoreID: 9},
		product.Product{ID: 3, Name: "Pot", Price: 3000, StockQuantity: 2, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)
	fx.addToCart(t, 7, 2, 2)
	fx.addToCart(t, 7, 3, 1)

	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, placed, 2)

	// Stores are processed in ascending ID order
	assert.Equal(t, uint(2), placed[0].StoreID)
	assert.Equal(t, int64(3500), placed[0].TotalPrice)
	assert.Equal(t, uint(9), placed[1].StoreID)
	assert.Equal(t, int64(2400), placed[1].TotalPrice)

	ord, err := fx.ordRepo.FindByID(ctx, placed[0].OrderID)
	require.NoError(t, err)
	require.Len(t, ord.Lines, 2)
}

func TestPlaceOrder_SnapshotsCartViewPrice(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 1},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 2)

	// Price change after items were added: checkout charges the price in
	// the cart view read at checkout time, which is the live price.
	p := fx.reader.products[1]
	p.Price = 700
	fx.reader.products[1] = p

	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1400), placed[0].TotalPrice)

	ord, err := fx.ordRepo.FindByID(ctx, placed[0].OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), ord.Lines[0].PriceAtPurchase)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	fx := newFixture()

	_, err := fx.orders.PlaceOrder(context.Background(), 7)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEmptyCart, appErr.Code)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidInput))
}

func TestPlaceOrder_MalformedCartLine(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 0},
	)
	fx.addToCart(t, 7, 1, 1)

	// A storeless product is corrupt data, not client input; callers see
	// only a generic internal failure.
	_, err := fx.orders.PlaceOrder(context.Background(), 7)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindInternal, appErr.Kind)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
	assert.Empty(t, fx.ordRepo.orders)
}

func TestPlaceOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
		product.Product{ID: 2, Name: "Mug", Price: 1200, StockQuantity: 5, IsActive: true, StoreID: 9},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 2)
	fx.addToCart(t, 7, 2, 3)

	// Someone else buys the mugs before checkout
	p := fx.reader.products[2]
	p.StockQuantity = 1
	fx.reader.products[2] = p

	_, err := fx.orders.PlaceOrder(ctx, 7)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// No order survives, no stock is deducted, the cart is intact
	assert.Empty(t, fx.ordRepo.orders)
	assert.Equal(t, 10, fx.reader.products[1].StockQuantity)
	assert.Equal(t, 1, fx.reader.products[2].StockQuantity)
	assert.Len(t, fx.cartRepo.lines, 2)
}

func TestPlaceOrder_DeactivatedProductRollsBack(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)

	p := fx.reader.products[1]
	p.IsActive = false
	fx.reader.products[1] = p

	_, err := fx.orders.PlaceOrder(ctx, 7)
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnavailable, appErr.Code)
	assert.Empty(t, fx.ordRepo.orders)
	assert.Len(t, fx.cartRepo.lines, 1)
}

func TestPlaceOrder_LastUnitOneWins(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 1, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)
	fx.addToCart(t, 8, 1, 1)

	first, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = fx.orders.PlaceOrder(ctx, 8)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	assert.Equal(t, 0, fx.reader.products[1].StockQuantity)
	assert.Len(t, fx.ordRepo.orders, 1)
}

// =====================
// Queries and status transitions
// =====================

func TestGetOrder_OwnershipEnforced(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)

	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)

	ord, err := fx.orders.GetOrder(ctx, 7, placed[0].OrderID)
	require.NoError(t, err)
	assert.Equal(t, placed[0].OrderID, ord.ID)

	_, err = fx.orders.GetOrder(ctx, 99, placed[0].OrderID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateStatus_ValidTransitions(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)
	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	orderID := placed[0].OrderID

	ord, err := fx.orders.UpdateStatus(ctx, 2, orderID, order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, ord.Status)

	ord, err = fx.orders.UpdateStatus(ctx, 2, orderID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, ord.Status)
}

func TestUpdateStatus_RejectsInvalidTransitions(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 1)
	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)
	orderID := placed[0].OrderID

	// Pending cannot jump straight to delivered
	_, err = fx.orders.UpdateStatus(ctx, 2, orderID, order.StatusDelivered)
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	// Wrong store sees not found
	_, err = fx.orders.UpdateStatus(ctx, 5, orderID, order.StatusShipped)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// Cancelled is terminal
	_, err = fx.orders.UpdateStatus(ctx, 2, orderID, order.StatusCancelled)
	require.NoError(t, err)
	_, err = fx.orders.UpdateStatus(ctx, 2, orderID, order.StatusShipped)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateStatus_CancelKeepsStockDeduction(t *testing.T) {
	fx := newFixture(
		product.Product{ID: 1, Name: "Tea", Price: 500, StockQuantity: 10, IsActive: true, StoreID: 2},
	)
	ctx := context.Background()
	fx.addToCart(t, 7, 1, 4)
	placed, err := fx.orders.PlaceOrder(ctx, 7)
	require.NoError(t, err)

	_, err = fx.orders.UpdateStatus(ctx, 2, placed[0].OrderID, order.StatusCancelled)
	require.NoError(t, err)

	// Cancelling changes the label only
	assert.Equal(t, 6, fx.reader.products[1].StockQuantity)
}
