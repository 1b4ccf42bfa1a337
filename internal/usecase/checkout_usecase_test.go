package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（Checkout向け：衝突回避）
// =====================

type ChkOrderRepoMock struct{ mock.Mock }

func (m *ChkOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *ChkOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

type ChkOrderItemRepoMock struct{ mock.Mock }

func (m *ChkOrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *ChkOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type ChkCartItemRepoMock struct{ mock.Mock }

func (m *ChkCartItemRepoMock) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *ChkCartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID string, productID int64, addQty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *ChkCartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *ChkCartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *ChkCartItemRepoMock) DeleteByCartID(ctx context.Context, cartID string) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

func (m *ChkCartItemRepoMock) FindByCartAndID(ctx context.Context, cartID string, cartItemID int64) (model.CartItem, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *ChkCartItemRepoMock) SumQuantityByCartID(ctx context.Context, cartID string) (int64, error) {
	panic("not used in CheckoutUsecase tests")
}

type ChkProductRepoMock struct{ mock.Mock }

func (m *ChkProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *ChkProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ChkProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CheckoutUsecase tests")
}

type ChkTxReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	cartItems  repo.CartItemRepository
	products   repo.ProductRepository
}

func (r *ChkTxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *ChkTxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *ChkTxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *ChkTxReposMock) Products() repo.ProductRepository     { return r.products }

type ChkTxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *ChkTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type chkFixture struct {
	orders     *ChkOrderRepoMock
	orderItems *ChkOrderItemRepoMock
	cartItems  *ChkCartItemRepoMock
	products   *ChkProductRepoMock
	uc         *CheckoutUsecase
}

func newChkFixture() *chkFixture {
	f := &chkFixture{
		orders:     new(ChkOrderRepoMock),
		orderItems: new(ChkOrderItemRepoMock),
		cartItems:  new(ChkCartItemRepoMock),
		products:   new(ChkProductRepoMock),
	}
	tx := &ChkTxManagerMock{Repos: &ChkTxReposMock{
		orders:     f.orders,
		orderItems: f.orderItems,
		cartItems:  f.cartItems,
		products:   f.products,
	}}
	tx.On("WithinTx", mock.Anything).Return()
	f.uc = NewCheckoutUsecase(tx)
	return f
}

// =====================
// Checkout
// =====================

// Test: スナップショット計算と注文作成、カートのクリア
// (productA qty=2 price=10) + (productB qty=1 price=5) => total 25
func TestCheckout_SnapshotsPricesAndClearsCart(t *testing.T) {
	ctx := context.Background()
	cartID := "cart-1"
	f := newChkFixture()

	f.cartItems.On("ListByCartID", mock.Anything, cartID).Return([]model.CartItem{
		{ID: 1, CartID: cartID, ProductID: 101, Quantity: 2},
		{ID: 2, CartID: cartID, ProductID: 102, Quantity: 1},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Album A", Price: 10}, nil)
	f.products.On("FindByID", mock.Anything, int64(102)).
		Return(model.Product{ID: 102, Name: "Album B", Price: 5}, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CartID == cartID && o.TotalPrice == 25
	})).Return(int64(77), nil)

	f.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		a, b := items[0], items[1]
		return a.ProductID == 101 && a.UnitPriceSnapshot == 10 && a.Quantity == 2 &&
			b.ProductID == 102 && b.UnitPriceSnapshot == 5 && b.Quantity == 1
	})).Return(nil)

	f.cartItems.On("DeleteByCartID", mock.Anything, cartID).Return(nil)

	out, err := f.uc.Checkout(ctx, cartID)
	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)
	assert.Equal(t, int64(25), out.TotalPrice)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, int64(10), out.Items[0].Price)
	assert.Equal(t, int64(5), out.Items[1].Price)

	f.orders.AssertExpectations(t)
	f.orderItems.AssertExpectations(t)
	f.cartItems.AssertExpectations(t)
}

// Test: カタログから消えた商品が混ざっていたら409。注文もカート削除も無し
func TestCheckout_ProductVanished_NothingCommitted(t *testing.T) {
	ctx := context.Background()
	cartID := "cart-1"
	f := newChkFixture()

	f.cartItems.On("ListByCartID", mock.Anything, cartID).Return([]model.CartItem{
		{ID: 1, CartID: cartID, ProductID: 101, Quantity: 2},
		{ID: 2, CartID: cartID, ProductID: 999, Quantity: 1},
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(101)).
		Return(model.Product{ID: 101, Name: "Album A", Price: 10}, nil)
	f.products.On("FindByID", mock.Anything, int64(999)).
		Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.Checkout(ctx, cartID)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
	assert.Equal(t, "product not found", he.Message)

	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orderItems.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything, mock.Anything)
	f.cartItems.AssertNotCalled(t, "DeleteByCartID", mock.Anything, mock.Anything)
}

// Test: 空カートのチェックアウトは合計0の注文になる
func TestCheckout_EmptyCartYieldsZeroTotalOrder(t *testing.T) {
	ctx := context.Background()
	cartID := "cart-1"
	f := newChkFixture()

	f.cartItems.On("ListByCartID", mock.Anything, cartID).Return([]model.CartItem{}, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalPrice == 0
	})).Return(int64(78), nil)
	f.orderItems.On("CreateBulk", mock.Anything, int64(78), mock.Anything).Return(nil)
	f.cartItems.On("DeleteByCartID", mock.Anything, cartID).Return(nil)

	out, err := f.uc.Checkout(ctx, cartID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), out.TotalPrice)
	assert.Empty(t, out.Items)
}

// =====================
// GetOrder
// =====================

// Test: 照会はスナップショットをそのまま返す（カタログは見ない）
func TestGetOrder_ReturnsSnapshotsWithoutCatalogLookup(t *testing.T) {
	ctx := context.Background()
	f := newChkFixture()

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	f.orders.On("FindByID", mock.Anything, int64(77)).
		Return(model.Order{ID: 77, CartID: "cart-1", TotalPrice: 25, CreatedAt: created}, nil)
	f.orderItems.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{
		{ID: 1, OrderID: 77, ProductID: 101, ProductNameSnapshot: "Album A", UnitPriceSnapshot: 10, Quantity: 2},
		{ID: 2, OrderID: 77, ProductID: 102, ProductNameSnapshot: "Album B", UnitPriceSnapshot: 5, Quantity: 1},
	}, nil)

	out, err := f.uc.GetOrder(ctx, "cart-1", 77)
	assert.NoError(t, err)
	assert.Equal(t, int64(25), out.TotalPrice)
	assert.Equal(t, created, out.CreatedAt)
	assert.Equal(t, int64(10), out.Items[0].Price)
	assert.Equal(t, int64(5), out.Items[1].Price)

	//スナップショットなので商品マスタは参照しない
	f.products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// Test: 無い注文は404
func TestGetOrder_NotFound(t *testing.T) {
	f := newChkFixture()

	f.orders.On("FindByID", mock.Anything, int64(1)).
		Return(model.Order{}, repo.ErrNotFound)

	_, err := f.uc.GetOrder(context.Background(), "cart-1", 1)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

// Test: 他カートの注文は「存在しない」扱いで404。明細も読まない
func TestGetOrder_OtherCartsOrderIsInvisible(t *testing.T) {
	f := newChkFixture()

	f.orders.On("FindByID", mock.Anything, int64(77)).
		Return(model.Order{ID: 77, CartID: "cart-1", TotalPrice: 25}, nil)

	_, err := f.uc.GetOrder(context.Background(), "cart-2", 77)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "not found", he.Message)

	f.orderItems.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}
