package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/display"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.Product{},
		&model.Order{}, &model.OrderItem{},
		&model.Delivery{}, &model.DeliveryItem{},
		&model.Review{}, &model.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type orderFixture struct {
	db       *gorm.DB
	orders   repository.OrderRepository
	products repository.ProductRepository
	notifs   repository.NotificationRepository
	notifier *Notifier
	stop     func(context.Context) error
	svc      OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := setupServiceDB(t)
	f := &orderFixture{
		db:       db,
		orders:   repository.NewOrderRepository(db),
		products: repository.NewProductRepository(db),
		notifs:   repository.NewNotificationRepository(db),
	}
	f.notifier = NewNotifier(f.notifs, nil, 100)
	f.stop = f.notifier.Start(1)
	t.Cleanup(func() { _ = f.stop(context.Background()) })
	f.svc = NewOrderService(f.orders, f.products, f.notifier)

	require.NoError(t, f.products.Create(context.Background(), &model.Product{
		ID: "P1", Name: "Keyboard", Image: "kb.png", Price: 100, Stock: 10,
	}))
	require.NoError(t, f.products.Create(context.Background(), &model.Product{
		ID: "P2", Name: "Mouse", Price: 40, Stock: 2,
	}))
	return f
}

func TestPlaceOrderSnapshotsPriceAndStock(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.PlaceOrder(ctx, "u1", "somewhere", "card", []PlaceOrderItem{
		{ProductID: "P1", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, order.Amount)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Keyboard", order.Items[0].Name)
	assert.Equal(t, "P1", order.Items[0].Product.Key())

	p, err := f.products.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "u1", "addr", "card", []PlaceOrderItem{
		{ProductID: "P2", Quantity: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestPlaceOrderRollsBackOnPartialStockFailure(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// 第二行超出库存：整单失败，第一行的扣减不能留下
	_, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{
		{ProductID: "P1", Quantity: 5},
		{ProductID: "P2", Quantity: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	p1, err := f.products.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)
	p2, err := f.products.GetByID(ctx, "P2")
	require.NoError(t, err)
	assert.Equal(t, 2, p2.Stock)

	orders, err := f.svc.MyOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrderEmpty(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.PlaceOrder(context.Background(), "u1", "addr", "card", nil)
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestMyOrderRowsExpansionAndCounts(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{
		{ProductID: "P1", Quantity: 3},
	})
	require.NoError(t, err)

	// 管理端发 2 件，订单转部分发货
	_, err = f.svc.AddDelivery(ctx, placed.ID, []PlaceOrderItem{{ProductID: "P1", Quantity: 2}}, model.DeliveryStatusDelivered)
	require.NoError(t, err)

	rows, notReviewed, reviewed, err := f.svc.MyOrderRows(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsDeliveryRow)
	assert.Equal(t, placed.ID+"-D1", rows[0].DisplayID)
	assert.Equal(t, 200.0, rows[0].DisplayAmount)
	assert.True(t, rows[1].IsUndeliveredRow)
	assert.Equal(t, 100.0, rows[1].DisplayAmount)

	// 发货行状态 delivered 且未评价 => 待评价计 1
	assert.Equal(t, 1, notReviewed)
	assert.Zero(t, reviewed)

	// 提交评价后重算
	reviews := []display.Review{{Product: display.RefID("P1"), OrderID: placed.ID, Rating: 5}}
	_, notReviewed, reviewed, err = f.svc.MyOrderRows(ctx, "u1", reviews)
	require.NoError(t, err)
	assert.Zero(t, notReviewed)
	assert.Equal(t, 1, reviewed)
}

func TestOrderDetailOwnership(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	got, err := f.svc.OrderDetail(ctx, placed.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, placed.ID, got.ID)

	_, err = f.svc.OrderDetail(ctx, placed.ID, "intruder")
	require.ErrorIs(t, err, ErrNotOwner)

	_, err = f.svc.OrderDetail(ctx, "missing", "u1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelRules(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{{ProductID: "P1", Quantity: 2}})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Cancel(ctx, placed.ID, "intruder"), ErrNotOwner)
	require.NoError(t, f.svc.Cancel(ctx, placed.ID, "u1"))

	// 取消返还库存
	p1, err := f.products.GetByID(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 10, p1.Stock)

	// 已取消订单不能再发货
	_, err = f.svc.AddDelivery(ctx, placed.ID, []PlaceOrderItem{{ProductID: "P1", Quantity: 1}}, "")
	require.ErrorIs(t, err, ErrOrderFinalized)

	// 已发货订单不能取消
	placed2, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)
	_, err = f.svc.AddDelivery(ctx, placed2.ID, []PlaceOrderItem{{ProductID: "P1", Quantity: 1}}, "")
	require.NoError(t, err)
	require.ErrorIs(t, f.svc.Cancel(ctx, placed2.ID, "u1"), ErrOrderNotCancellable)
}

func TestNotifierPersistsOrderEvents(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceOrder(ctx, "u1", "addr", "card", []PlaceOrderItem{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		list, err := f.notifs.ListByUserID(ctx, "u1", 10)
		return err == nil && len(list) == 1
	}, 2*time.Second, 10*time.Millisecond)

	list, err := f.notifs.ListByUserID(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Equal(t, model.NotificationTypeOrder, list[0].Type)
	assert.False(t, list[0].IsRead)
}
