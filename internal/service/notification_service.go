package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

const unreadCountTTL = 30 * time.Second

func unreadCountKey(userID string) string { return "notif:unread:" + userID }

// NotificationService 通知读取与已读状态服务
type NotificationService interface {
	// List 用户通知列表
	List(ctx context.Context, userID string, limit int) ([]*model.Notification, error)

	// MarkRead 标记单条已读
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead 全部标记已读，返回影响条数
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	// Delete 删除单条通知
	Delete(ctx context.Context, userID, id string) error

	// UnreadCount 未读数量：redis 读穿透缓存，miss 回源 DB 并回填
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	cache *redis.Client
}

// NewNotificationService cache 可为 nil（无 redis 时每次回源）
func NewNotificationService(repo repository.NotificationRepository, cache *redis.Client) NotificationService {
	return &notificationService{repo: repo, cache: cache}
}

func (s *notificationService) List(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ListByUserID(ctx, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)
	return affected, nil
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if s.cache != nil {
		if v, err := s.cache.Get(ctx, unreadCountKey(userID)).Result(); err == nil {
			if cnt, pErr := strconv.ParseInt(v, 10, 64); pErr == nil {
				return cnt, nil
			}
		}
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, unreadCountKey(userID), strconv.FormatInt(cnt, 10), unreadCountTTL).Err()
	}
	return cnt, nil
}

func (s *notificationService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, unreadCountKey(userID)).Err()
	}
}
