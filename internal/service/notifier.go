package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
	"github.com/d60-Lab/shop-api/pkg/logger"
)

// Notifier 进程内异步通知分发器：业务路径只入队，落库由 worker 完成，
// 队列满时丢弃并告警，不阻塞请求
type Notifier struct {
	repo  repository.NotificationRepository
	cache *redis.Client
	ch    chan model.Notification
}

// NewNotifier cache 可为 nil（无 redis 时仅落库）
func NewNotifier(repo repository.NotificationRepository, cache *redis.Client, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &Notifier{repo: repo, cache: cache, ch: make(chan model.Notification, queueSize)}
}

// Start 启动 workers 个消费协程；返回停止函数，停止时等待队列自然排空一小段时间
func (n *Notifier) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case notif := <-n.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					if err := n.repo.Create(ctx, &notif); err != nil {
						logger.Warn("notifier create failed",
							zap.String("user", notif.UserID), zap.Error(err))
					} else if n.cache != nil {
						// 未读计数缓存失效，下次读取回源重建
						_ = n.cache.Del(ctx, unreadCountKey(notif.UserID)).Err()
					}
					cancel()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(n.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

// Notify 入队一条通知
func (n *Notifier) Notify(userID, typ, title, body, orderID string) {
	notif := model.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Body:    body,
		OrderID: orderID,
	}
	select {
	case n.ch <- notif:
	default:
		logger.Warn("notifier queue full, drop", zap.String("user", userID), zap.String("title", title))
	}
}
