package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// ListProducts 商品列表
// @Summary 商品列表
// @Tags 商品
// @Param category query string false "分类"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/product/list [get]
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	list, err := h.products.List(c.Request.Context(), c.Query("category"), page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// GetProduct 商品详情
// @Summary 商品详情
// @Tags 商品
// @Param id path string true "商品ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/product/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, p)
}

type productRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=5000"`
	Image       string  `json:"image" binding:"omitempty,url"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	Category    string  `json:"category" binding:"max=64"`
}

// AdminCreateProduct 新建商品
// @Summary 新建商品（管理端）
// @Tags 管理端
// @Accept json
// @Produce json
// @Param request body productRequest true "商品信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/admin/product [post]
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	}
	if err := h.products.Create(c.Request.Context(), p); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, p)
}

// AdminUpdateProduct 更新商品
// @Summary 更新商品（管理端）
// @Tags 管理端
// @Accept json
// @Produce json
// @Param id path string true "商品ID"
// @Param request body productRequest true "商品信息"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/admin/product/{id} [put]
func (h *Handler) AdminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p := &model.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
	}
	if err := h.products.Update(c.Request.Context(), p); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "product updated", nil)
}

// AdminDeleteProduct 删除商品
// @Summary 删除商品（管理端）
// @Tags 管理端
// @Param id path string true "商品ID"
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/admin/product/{id} [delete]
func (h *Handler) AdminDeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.SuccessMsg(c, "product deleted", nil)
}
