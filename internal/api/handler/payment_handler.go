package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/pkg/response"
)

type paymentRequest struct {
	Method  string `json:"method" binding:"required,oneof=card cod wallet"`
	Success *bool  `json:"success" binding:"required"`
}

// RecordPayment 记录支付结果
// @Summary 回写支付结果
// @Tags 支付
// @Accept json
// @Produce json
// @Param orderID path string true "订单ID"
// @Param request body paymentRequest true "支付结果"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/payment/{orderID} [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.payments.RecordPayment(c.Request.Context(),
		c.Param("orderID"), middleware.CurrentUserID(c), req.Method, *req.Success)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "payment recorded", nil)
}
