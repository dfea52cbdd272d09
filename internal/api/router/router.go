package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/shop-api/config"
	_ "github.com/d60-Lab/shop-api/docs"
	"github.com/d60-Lab/shop-api/internal/api/handler"
	"github.com/d60-Lab/shop-api/internal/api/middleware"
	"github.com/d60-Lab/shop-api/pkg/response"
)

// New 组装路由与全局中间件
func New(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		gzip.Gzip(gzip.DefaultCompression),
		otelgin.Middleware(cfg.Trace.Service),
		middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
	)

	r.GET("/healthz", func(c *gin.Context) { response.Success(c, gin.H{"status": "ok"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// 公开接口
	user := api.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.POST("/reset/request", h.RequestReset)
		user.POST("/reset/verify", h.VerifyReset)
		user.POST("/reset/confirm", h.ConfirmReset)
	}
	product := api.Group("/product")
	{
		product.GET("/list", h.ListProducts)
		product.GET("/:id", h.GetProduct)
		product.GET("/:id/reviews", h.ProductReviews)
	}

	// 登录后接口
	authed := api.Group("", middleware.JWTAuth(cfg.JWT.Secret))
	{
		order := authed.Group("/order")
		{
			order.POST("", h.PlaceOrder)
			order.GET("/my-orders", h.MyOrders)
			order.GET("/my-orders/rows", h.MyOrderRows)
			order.GET("/:id", h.OrderDetail)
			order.POST("/:id/cancel", h.CancelOrder)
		}

		authed.GET("/user/reviews", h.MyReviews)
		review := authed.Group("/review")
		{
			review.POST("", h.SubmitReview)
			review.DELETE("/:id", h.DeleteReview)
		}

		notif := authed.Group("/notifications")
		{
			notif.GET("", h.ListNotifications)
			notif.GET("/unread-count", h.UnreadCount)
			notif.PUT("/read-all", h.MarkAllNotificationsRead)
			notif.PUT("/:id/read", h.MarkNotificationRead)
			notif.DELETE("/:id", h.DeleteNotification)
		}

		authed.POST("/payment/:orderID", h.RecordPayment)

		// 管理端
		admin := authed.Group("/admin", middleware.AdminOnly())
		{
			admin.GET("/orders", h.AdminListOrders)
			admin.POST("/order/:id/delivery", h.AdminAddDelivery)
			admin.PUT("/order/:id/status", h.AdminUpdateOrderStatus)
			admin.POST("/product", h.AdminCreateProduct)
			admin.PUT("/product/:id", h.AdminUpdateProduct)
			admin.DELETE("/product/:id", h.AdminDeleteProduct)
		}
	}

	return r
}
