package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

func seedOrder(t *testing.T, repo OrderRepository) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID: "u1",
		Status: model.OrderStatusConfirmed,
		Amount: 300,
		Items: []model.OrderItem{
			{ProductID: "P1", Name: "Keyboard", Price: 100, Quantity: 3},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestOrderCreateAndGet(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	order := seedOrder(t, repo)

	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, order.ID, got.Items[0].OrderID)
	assert.False(t, got.Items[0].IsDelivered)
	assert.Empty(t, got.Deliveries)
}

func TestOrderAddDeliveryPartialThenFull(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	order := seedOrder(t, repo)
	ctx := context.Background()

	// 先发 2 件：部分发货，行仍未完成
	got, err := repo.AddDelivery(ctx, order.ID, &model.Delivery{
		Items: []model.DeliveryItem{{ProductID: "P1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPartiallyShipped, got.Status)
	require.Len(t, got.Deliveries, 1)
	assert.Equal(t, model.DeliveryStatusShipped, got.Deliveries[0].Status)
	assert.False(t, got.Items[0].IsDelivered)

	// 再发 1 件：覆盖完成，行置 IsDelivered，订单转 shipped
	got, err = repo.AddDelivery(ctx, order.ID, &model.Delivery{
		Items: []model.DeliveryItem{{ProductID: "P1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, got.Status)
	require.Len(t, got.Deliveries, 2)
	assert.True(t, got.Items[0].IsDelivered)
}

func TestOrderAddDeliveryRejectsOverShipment(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	order := seedOrder(t, repo)
	ctx := context.Background()

	_, err := repo.AddDelivery(ctx, order.ID, &model.Delivery{
		Items: []model.DeliveryItem{{ProductID: "P1", Quantity: 4}},
	})
	require.ErrorIs(t, err, ErrExceedsRemaining)

	// 失败的发货不应留下任何记录
	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Deliveries)
	assert.Equal(t, model.OrderStatusConfirmed, got.Status)
}

func TestOrderAddDeliveryRejectsUnknownProduct(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	order := seedOrder(t, repo)

	_, err := repo.AddDelivery(context.Background(), order.ID, &model.Delivery{
		Items: []model.DeliveryItem{{ProductID: "GHOST", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrUnknownProduct)
}

func TestOrderListByUserID(t *testing.T) {
	repo := NewOrderRepository(setupTestDB(t))
	ctx := context.Background()

	seedOrder(t, repo)
	require.NoError(t, repo.Create(ctx, &model.Order{
		UserID: "u2", Status: model.OrderStatusPending, Amount: 10,
		Items: []model.OrderItem{{ProductID: "P2", Name: "Mouse", Price: 10, Quantity: 1}},
	}))

	mine, err := repo.ListByUserID(ctx, "u1", 50)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "u1", mine[0].UserID)
}
