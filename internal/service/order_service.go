package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/display"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/retry"
)

var (
	ErrEmptyOrder = errors.New("order must contain at least one item")
	// ErrInsufficientStock 复用仓储层哨兵，调用方对两层做 errors.Is 均命中
	ErrInsufficientStock   = repository.ErrInsufficientStock
	ErrNotOwner            = errors.New("order does not belong to user")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderFinalized      = errors.New("order is cancelled or delivered")
)

// PlaceOrderItem 下单项
type PlaceOrderItem struct {
	ProductID string
	Quantity  int
}

// OrderService 订单服务
type OrderService interface {
	// PlaceOrder 下单：校验库存、按当前商品做价格快照、扣库存并建单
	PlaceOrder(ctx context.Context, userID, address, paymentMethod string, items []PlaceOrderItem) (*display.Order, error)

	// MyOrders 用户订单列表（已映射为前端展示 DTO）
	MyOrders(ctx context.Context, userID string) ([]display.Order, error)

	// MyOrderRows 用户订单的展示行（按发货拆分）及评价状态标签计数
	MyOrderRows(ctx context.Context, userID string, reviews []display.Review) ([]display.DisplayRow, int, int, error)

	// OrderDetail 订单详情；瞬态失败按固定间隔重试，最多 3 次
	OrderDetail(ctx context.Context, orderID, userID string) (*display.Order, error)

	// ListAll 管理端分页列表
	ListAll(ctx context.Context, offset, limit int) ([]display.Order, error)

	// AddDelivery 管理端追加发货记录
	AddDelivery(ctx context.Context, orderID string, items []PlaceOrderItem, status string) (*display.Order, error)

	// UpdateStatus 管理端修改订单状态
	UpdateStatus(ctx context.Context, orderID, status string) error

	// Cancel 用户取消订单（仅 pending/confirmed）
	Cancel(ctx context.Context, orderID, userID string) error
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	notifier *Notifier
}

// NewOrderService 创建订单服务
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, notifier *Notifier) OrderService {
	return &orderService{orders: orders, products: products, notifier: notifier}
}

func (s *orderService) PlaceOrder(ctx context.Context, userID, address, paymentMethod string, items []PlaceOrderItem) (*display.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &model.Order{
		UserID:        userID,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: paymentMethod,
		Address:       address,
	}
	for _, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %s: %w", it.ProductID, err)
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})
		order.Amount += p.Price * float64(it.Quantity)
	}

	// 扣库存与建单在同一事务：任一行不足则全部回滚，不留下部分扣减
	if err := s.orders.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	s.notifier.Notify(userID, model.NotificationTypeOrder, "订单已创建",
		fmt.Sprintf("订单 %s 已创建，等待支付", order.ID), order.ID)

	dto := toDisplayOrder(order)
	return &dto, nil
}

func (s *orderService) MyOrders(ctx context.Context, userID string) ([]display.Order, error) {
	orders, err := s.orders.ListByUserID(ctx, userID, 100)
	if err != nil {
		return nil, err
	}
	return toDisplayOrders(orders), nil
}

func (s *orderService) MyOrderRows(ctx context.Context, userID string, reviews []display.Review) ([]display.DisplayRow, int, int, error) {
	orders, err := s.MyOrders(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	rows := display.ExpandAll(orders)
	notReviewed, reviewed := display.CountByReviewState(rows, reviews)
	return rows, notReviewed, reviewed, nil
}

func (s *orderService) OrderDetail(ctx context.Context, orderID, userID string) (*display.Order, error) {
	var order *model.Order
	err := retry.Do(ctx, 3, 500*time.Millisecond, func(ctx context.Context) error {
		var e error
		order, e = s.orders.GetByID(ctx, orderID)
		if errors.Is(e, gorm.ErrRecordNotFound) {
			// 不存在不属于瞬态错误，不再重试
			return nil
		}
		return e
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	dto := toDisplayOrder(order)
	return &dto, nil
}

func (s *orderService) ListAll(ctx context.Context, offset, limit int) ([]display.Order, error) {
	orders, err := s.orders.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return toDisplayOrders(orders), nil
}

func (s *orderService) AddDelivery(ctx context.Context, orderID string, items []PlaceOrderItem, status string) (*display.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case model.OrderStatusCancelled, model.OrderStatusDelivered:
		return nil, ErrOrderFinalized
	}

	delivery := &model.Delivery{Status: status}
	for _, it := range items {
		delivery.Items = append(delivery.Items, model.DeliveryItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	updated, err := s.orders.AddDelivery(ctx, orderID, delivery)
	if err != nil {
		return nil, err
	}

	title := "部分商品已发货"
	if updated.Status == model.OrderStatusShipped {
		title = "订单已全部发货"
	}
	s.notifier.Notify(updated.UserID, model.NotificationTypeDelivery, title,
		fmt.Sprintf("订单 %s 有新的发货记录", orderID), orderID)

	dto := toDisplayOrder(updated)
	return &dto, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID, status string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	s.notifier.Notify(order.UserID, model.NotificationTypeOrder, "订单状态更新",
		fmt.Sprintf("订单 %s 状态变更为 %s", orderID, status), orderID)
	return nil
}

func (s *orderService) Cancel(ctx context.Context, orderID, userID string) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return ErrNotOwner
	}
	switch order.Status {
	case model.OrderStatusPending, model.OrderStatusConfirmed:
	default:
		return ErrOrderNotCancellable
	}
	// 取消与返还库存同一事务
	if err := s.orders.Cancel(ctx, orderID); err != nil {
		return err
	}
	s.notifier.Notify(userID, model.NotificationTypeOrder, "订单已取消",
		fmt.Sprintf("订单 %s 已取消", orderID), orderID)
	return nil
}
