package service

import (
	"encoding/json"
	"time"

	"github.com/d60-Lab/shop-api/internal/display"
	"github.com/d60-Lab/shop-api/internal/model"
)

// 持久化模型到前端展示 DTO 的映射。商品引用统一输出为带名称/图片的
// populated 形式，历史客户端按裸 id 提交时由 ProductRef 归一化兜底。

func toDisplayOrder(o *model.Order) display.Order {
	out := display.Order{
		ID:            o.ID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Amount:        o.Amount,
		Date:          o.CreatedAt.Format(time.RFC3339),
		Address:       o.Address,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, display.OrderItem{
			ID: it.ID,
			Product: display.RefPopulated(display.ProductInfo{
				ID:    it.ProductID,
				Name:  it.Name,
				Image: it.Image,
			}),
			Name:        it.Name,
			Image:       it.Image,
			Price:       it.Price,
			Quantity:    it.Quantity,
			IsDelivered: it.IsDelivered,
		})
	}
	for _, d := range o.Deliveries {
		dd := display.Delivery{ID: d.ID, Status: d.Status}
		for _, di := range d.Items {
			dd.Items = append(dd.Items, display.DeliveryItem{
				ID:       di.ID,
				Product:  display.RefID(di.ProductID),
				Quantity: di.Quantity,
			})
		}
		out.Deliveries = append(out.Deliveries, dd)
	}
	return out
}

func toDisplayOrders(orders []*model.Order) []display.Order {
	out := make([]display.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toDisplayOrder(o))
	}
	return out
}

func toDisplayReview(r *model.Review) display.Review {
	out := display.Review{
		ID:      r.ID,
		Product: display.RefID(r.ProductID),
		OrderID: r.OrderID,
		Rating:  r.Rating,
		Comment: r.Comment,
	}
	// images 以 JSON 数组存储；损坏时按无图处理
	if r.Images != "" {
		_ = json.Unmarshal([]byte(r.Images), &out.Images)
	}
	return out
}

func toDisplayReviews(reviews []*model.Review) []display.Review {
	out := make([]display.Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toDisplayReview(r))
	}
	return out
}
