package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

var ErrAlreadyPaid = errors.New("order already paid")

// PaymentService 支付结果回写
type PaymentService interface {
	// RecordPayment 记录支付结果：成功时订单 pending -> confirmed；
	// 已支付订单拒绝重复回写
	RecordPayment(ctx context.Context, orderID, userID, method string, success bool) error
}

type paymentService struct {
	orders   repository.OrderRepository
	notifier *Notifier
}

// NewPaymentService 创建支付服务
func NewPaymentService(orders repository.OrderRepository, notifier *Notifier) PaymentService {
	return &paymentService{orders: orders, notifier: notifier}
}

func (s *paymentService) RecordPayment(ctx context.Context, orderID, userID, method string, success bool) error {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return ErrNotOwner
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		return ErrAlreadyPaid
	}
	if order.Status == model.OrderStatusCancelled {
		return ErrOrderFinalized
	}

	status := model.PaymentStatusFailed
	if success {
		status = model.PaymentStatusPaid
	}
	if err := s.orders.UpdatePayment(ctx, orderID, status, method); err != nil {
		return err
	}

	if success {
		if order.Status == model.OrderStatusPending {
			if err := s.orders.UpdateStatus(ctx, orderID, model.OrderStatusConfirmed); err != nil {
				return err
			}
		}
		s.notifier.Notify(userID, model.NotificationTypePayment, "支付成功",
			fmt.Sprintf("订单 %s 支付成功", orderID), orderID)
		return nil
	}
	s.notifier.Notify(userID, model.NotificationTypePayment, "支付失败",
		fmt.Sprintf("订单 %s 支付失败，请重试", orderID), orderID)
	return nil
}
