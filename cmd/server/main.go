package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/config"
	"github.com/d60-Lab/shop-api/internal/api/handler"
	"github.com/d60-Lab/shop-api/internal/api/router"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/internal/service"
	"github.com/d60-Lab/shop-api/pkg/cache"
	"github.com/d60-Lab/shop-api/pkg/database"
	"github.com/d60-Lab/shop-api/pkg/logger"
	"github.com/d60-Lab/shop-api/pkg/scheduler"
	"github.com/d60-Lab/shop-api/pkg/tracing"
)

// @title shop-api
// @version 1.0
// @description 电商后端：商品、订单、发货、评价、通知与支付
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := db.AutoMigrate(
		&model.User{}, &model.Product{},
		&model.Order{}, &model.OrderItem{},
		&model.Delivery{}, &model.DeliveryItem{},
		&model.Review{}, &model.Notification{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// redis 不可用时降级运行：OTP 重置不可用，未读计数每次回源
	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	notifier := service.NewNotifier(notifRepo, rdb, 10000)
	stopNotifier := notifier.Start(4)

	h := handler.New(
		service.NewAuthService(userRepo, rdb, notifier, cfg.JWT, cfg.OTP),
		service.NewOrderService(orderRepo, productRepo, notifier),
		service.NewReviewService(reviewRepo, orderRepo),
		service.NewNotificationService(notifRepo, rdb),
		service.NewProductService(productRepo),
		service.NewPaymentService(orderRepo, notifier),
	)

	// 已读通知保留 30 天，每小时清理一次
	purger := scheduler.NewInterval(time.Hour, func(ctx context.Context) {
		n, err := notifRepo.PurgeReadBefore(ctx, time.Now().AddDate(0, 0, -30))
		if err != nil {
			logger.Warn("notification purge failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("purged read notifications", zap.Int64("count", n))
		}
	})
	purger.Start()

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.New(cfg, h),
	}
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	purger.Stop()
	if err := stopNotifier(shutdownCtx); err != nil {
		logger.Error("notifier shutdown", zap.Error(err))
	}
}
