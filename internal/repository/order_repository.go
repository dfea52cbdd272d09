package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

var (
	// ErrUnknownProduct 发货项引用了订单中不存在的商品
	ErrUnknownProduct = errors.New("delivery item references product not in order")
	// ErrExceedsRemaining 发货数量超过剩余未发数量
	ErrExceedsRemaining = errors.New("delivery quantity exceeds remaining undelivered quantity")
	// ErrInsufficientStock 库存不足，扣减未执行
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Create 创建订单（含订单行）
	Create(ctx context.Context, order *model.Order) error

	// PlaceOrder 在同一事务内扣减各行库存并创建订单；
	// 任一行库存不足时整体回滚并返回 ErrInsufficientStock
	PlaceOrder(ctx context.Context, order *model.Order) error

	// Cancel 取消订单并在同一事务内返还全部库存
	Cancel(ctx context.Context, id string) error

	// GetByID 查询订单，预加载订单行与发货记录
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// ListByUserID 查询用户订单列表，按创建时间倒序
	ListByUserID(ctx context.Context, userID string, limit int) ([]*model.Order, error)

	// List 分页查询全部订单（管理端）
	List(ctx context.Context, offset, limit int) ([]*model.Order, error)

	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdatePayment 更新支付状态与支付方式
	UpdatePayment(ctx context.Context, id, paymentStatus, paymentMethod string) error

	// AddDelivery 追加一条发货记录：校验数量、落库、并在同一事务内
	// 重算各订单行的 IsDelivered 与订单状态
	AddDelivery(ctx context.Context, orderID string, delivery *model.Delivery) (*model.Order, error)

	// Close 关闭数据库连接
	Close() error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) PlaceOrder(ctx context.Context, order *model.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range order.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, it.ProductID)
			}
		}
		return tx.Create(order).Error
	})
}

// Cancel 仅对 pending/confirmed 订单调用（调用方已校验），此时尚无发货记录，
// 整单返还即可
func (r *orderRepository) Cancel(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []model.OrderItem
		if err := tx.Where("order_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Model(&model.Product{}).
				Where("id = ?", it.ProductID).
				Update("stock", gorm.Expr("stock + ?", it.Quantity)).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Order{}).
			Where("id = ?", id).
			Update("status", model.OrderStatusCancelled).Error
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.created_at ASC") }).
		Preload("Deliveries.Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.created_at ASC") }).
		Preload("Deliveries.Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) List(ctx context.Context, offset, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.created_at ASC") }).
		Preload("Deliveries.Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdatePayment(ctx context.Context, id, paymentStatus, paymentMethod string) error {
	return r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": paymentStatus, "payment_method": paymentMethod}).Error
}

func (r *orderRepository) AddDelivery(ctx context.Context, orderID string, delivery *model.Delivery) (*model.Order, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.Order
		if err := tx.Preload("Items").Preload("Deliveries.Items").
			Where("id = ?", orderID).First(&order).Error; err != nil {
			return err
		}

		// 已覆盖数量：按商品累加历史发货
		covered := make(map[string]int)
		for _, d := range order.Deliveries {
			for _, di := range d.Items {
				covered[di.ProductID] += di.Quantity
			}
		}

		// 订单行按商品索引
		lines := make(map[string]*model.OrderItem, len(order.Items))
		for i := range order.Items {
			lines[order.Items[i].ProductID] = &order.Items[i]
		}

		for _, di := range delivery.Items {
			line, ok := lines[di.ProductID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownProduct, di.ProductID)
			}
			if covered[di.ProductID]+di.Quantity > line.Quantity {
				return fmt.Errorf("%w: product %s", ErrExceedsRemaining, di.ProductID)
			}
			covered[di.ProductID] += di.Quantity
		}

		if delivery.ID == "" {
			delivery.ID = uuid.New().String()
		}
		delivery.OrderID = orderID
		if delivery.Status == "" {
			delivery.Status = model.DeliveryStatusShipped
		}
		if delivery.CreatedAt.IsZero() {
			delivery.CreatedAt = time.Now()
		}
		for i := range delivery.Items {
			if delivery.Items[i].ID == "" {
				delivery.Items[i].ID = uuid.New().String()
			}
			delivery.Items[i].DeliveryID = delivery.ID
		}
		if err := tx.Create(delivery).Error; err != nil {
			return err
		}

		// 重算 IsDelivered：行数量被完全覆盖即置 true
		allCovered := true
		for _, line := range order.Items {
			isDone := covered[line.ProductID] >= line.Quantity
			if isDone != line.IsDelivered {
				if err := tx.Model(&model.OrderItem{}).
					Where("id = ?", line.ID).
					Update("is_delivered", isDone).Error; err != nil {
					return err
				}
			}
			if !isDone {
				allCovered = false
			}
		}

		// 订单状态仅由覆盖度推导，不读取单条发货的状态
		status := model.OrderStatusPartiallyShipped
		if allCovered {
			status = model.OrderStatusShipped
		}
		return tx.Model(&model.Order{}).Where("id = ?", orderID).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
