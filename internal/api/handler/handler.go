package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// Handler 聚合全部 API 处理器
type Handler struct {
	auth          service.AuthService
	orders        service.OrderService
	reviews       service.ReviewService
	notifications service.NotificationService
	products      service.ProductService
	payments      service.PaymentService
}

// New 创建 Handler
func New(
	auth service.AuthService,
	orders service.OrderService,
	reviews service.ReviewService,
	notifications service.NotificationService,
	products service.ProductService,
	payments service.PaymentService,
) *Handler {
	return &Handler{
		auth:          auth,
		orders:        orders,
		reviews:       reviews,
		notifications: notifications,
		products:      products,
		payments:      payments,
	}
}

// writeServiceError 业务错误到 HTTP 状态码的统一映射
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, service.ErrOrderFinalized),
		errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrProductNotInOrder),
		errors.Is(err, service.ErrOTPInvalid),
		errors.Is(err, service.ErrOTPTooManyAttempts),
		errors.Is(err, repository.ErrUnknownProduct),
		errors.Is(err, repository.ErrExceedsRemaining):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrResetUnavailable):
		response.ServiceUnavailable(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
