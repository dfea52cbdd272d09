package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// ListNotifications 通知列表
// @Summary 我的通知列表
// @Tags 通知
// @Param limit query int false "数量上限" default(50)
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.notifications.List(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, list)
}

// UnreadCount 未读数量（供前端轮询）
// @Summary 未读通知数量
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/notifications/unread-count [get]
func (h *Handler) UnreadCount(c *gin.Context) {
	cnt, err := h.notifications.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"count": cnt})
}

// MarkNotificationRead 标记已读
// @Summary 标记单条通知已读
// @Tags 通知
// @Param id path string true "通知ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/notifications/{id}/read [put]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllNotificationsRead 全部已读
// @Summary 全部通知标记已读
// @Tags 通知
// @Produce json
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/notifications/read-all [put]
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	affected, err := h.notifications.MarkAllRead(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": affected})
}

// DeleteNotification 删除通知
// @Summary 删除单条通知
// @Tags 通知
// @Param id path string true "通知ID"
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	if err := h.notifications.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
