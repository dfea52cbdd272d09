package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// MyReviews 我的评价
// @Summary 我的评价列表
// @Tags 评价
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/user/reviews [get]
func (h *Handler) MyReviews(c *gin.Context) {
	reviews, err := h.reviews.MyReviews(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// 历史契约：两端按 { success, reviews } 顶层键取值
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

type submitReviewRequest struct {
	ProductID string   `json:"product_id" binding:"required"`
	OrderID   string   `json:"order_id" binding:"required"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Comment   string   `json:"comment" binding:"max=2000"`
	Images    []string `json:"images" binding:"max=9"`
}

// SubmitReview 提交或修改评价
// @Summary 提交评价（重复提交视为修改）
// @Tags 评价
// @Accept json
// @Produce json
// @Param request body submitReviewRequest true "评价内容"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.Response
// @Router /api/review [post]
func (h *Handler) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reviews, err := h.reviews.Submit(c.Request.Context(), middleware.CurrentUserID(c), service.SubmitReviewInput{
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Images:    req.Images,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	// 返回最新列表，客户端随后重新拉取订单做评价匹配
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

// DeleteReview 删除评价
// @Summary 删除本人评价
// @Tags 评价
// @Param id path string true "评价ID"
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.Response
// @Router /api/review/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	reviews, err := h.reviews.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

// ProductReviews 商品评价
// @Summary 商品评价列表
// @Tags 评价
// @Param id path string true "商品ID"
// @Param limit query int false "数量上限" default(50)
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/product/{id}/reviews [get]
func (h *Handler) ProductReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	reviews, err := h.reviews.ByProduct(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, reviews)
}
