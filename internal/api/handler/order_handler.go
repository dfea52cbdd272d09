package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/response"
)

type placeOrderRequest struct {
	Address       string                  `json:"address" binding:"required"`
	PaymentMethod string                  `json:"payment_method" binding:"required,oneof=card cod wallet"`
	Items         []placeOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type placeOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (r placeOrderRequest) toItems() []service.PlaceOrderItem {
	items := make([]service.PlaceOrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, service.PlaceOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return items
}

// PlaceOrder 下单
// @Summary 创建订单
// @Tags 订单
// @Accept json
// @Produce json
// @Param request body placeOrderRequest true "下单信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/order [post]
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(),
		middleware.CurrentUserID(c), req.Address, req.PaymentMethod, req.toItems())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// MyOrders 我的订单
// @Summary 我的订单列表
// @Tags 订单
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/order/my-orders [get]
func (h *Handler) MyOrders(c *gin.Context) {
	orders, err := h.orders.MyOrders(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// 历史契约：两端按 { success, orders } 顶层键取值
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// MyOrderRows 我的订单展示行（按发货拆分）
// @Summary 我的订单展示行与评价标签计数
// @Tags 订单
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/order/my-orders/rows [get]
func (h *Handler) MyOrderRows(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	reviews, err := h.reviews.MyReviews(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	rows, notReviewed, reviewed, err := h.orders.MyOrderRows(c.Request.Context(), userID, reviews)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"rows":               rows,
		"not_reviewed_count": notReviewed,
		"reviewed_count":     reviewed,
	})
}

// OrderDetail 订单详情
// @Summary 订单详情
// @Tags 订单
// @Param id path string true "订单ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/order/{id} [get]
func (h *Handler) OrderDetail(c *gin.Context) {
	order, err := h.orders.OrderDetail(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// CancelOrder 取消订单
// @Summary 取消订单
// @Tags 订单
// @Param id path string true "订单ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/order/{id}/cancel [post]
func (h *Handler) CancelOrder(c *gin.Context) {
	if err := h.orders.Cancel(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "order cancelled", nil)
}
