package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

func TestUnreadCountCacheReadThrough(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewNotificationRepository(db)
	cache := setupRedis(t)
	svc := NewNotificationService(repo, cache)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "a"}))
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "b"}))

	cnt, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	// 绕过服务直接写库：缓存未失效前读到旧值
	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "c"}))
	cnt, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt, "cached value until invalidated or expired")

	// 经由服务的写路径使缓存失效
	list, err := svc.List(ctx, "u1", 10)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(ctx, "u1", list[0].ID))

	cnt, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt, "3 created - 1 read")
}

func TestUnreadCountWithoutCache(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewNotificationRepository(db)
	svc := NewNotificationService(repo, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeSystem, Title: "a"}))

	cnt, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestMarkAllReadInvalidatesCounter(t *testing.T) {
	db := setupServiceDB(t)
	repo := repository.NewNotificationRepository(db)
	svc := NewNotificationService(repo, setupRedis(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Notification{UserID: "u1", Type: model.NotificationTypeSystem, Title: "x"}))
	}

	cnt, err := svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)

	affected, err := svc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	cnt, err = svc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, cnt)
}
