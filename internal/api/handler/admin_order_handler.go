package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// AdminListOrders 管理端订单列表
// @Summary 订单列表（管理端）
// @Tags 管理端
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/admin/orders [get]
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	orders, err := h.orders.ListAll(c.Request.Context(), (page-1)*pageSize, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": orders})
}

type addDeliveryRequest struct {
	Status string                  `json:"status" binding:"omitempty,oneof=shipped in-transit delivered cancelled"`
	Items  []placeOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AdminAddDelivery 追加发货记录
// @Summary 订单发货（可部分发货）
// @Tags 管理端
// @Accept json
// @Produce json
// @Param id path string true "订单ID"
// @Param request body addDeliveryRequest true "发货明细"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/admin/order/{id}/delivery [post]
func (h *Handler) AdminAddDelivery(c *gin.Context) {
	var req addDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	items := make([]service.PlaceOrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.PlaceOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	order, err := h.orders.AddDelivery(c.Request.Context(), c.Param("id"), items, req.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, order)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed partially-shipped shipped delivered cancelled"`
}

// AdminUpdateOrderStatus 修改订单状态
// @Summary 修改订单状态（管理端）
// @Tags 管理端
// @Accept json
// @Produce json
// @Param id path string true "订单ID"
// @Param request body updateOrderStatusRequest true "目标状态"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/order/{id}/status [put]
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "status updated", nil)
}
