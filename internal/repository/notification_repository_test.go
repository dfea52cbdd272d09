package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

func TestNotificationReadState(t *testing.T) {
	repo := NewNotificationRepository(setupTestDB(t))
	ctx := context.Background()

	n1 := &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "order placed"}
	n2 := &model.Notification{UserID: "u1", Type: model.NotificationTypeDelivery, Title: "shipment on the way"}
	other := &model.Notification{UserID: "u2", Type: model.NotificationTypeSystem, Title: "hi"}
	require.NoError(t, repo.Create(ctx, n1))
	require.NoError(t, repo.Create(ctx, n2))
	require.NoError(t, repo.Create(ctx, other))

	cnt, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)

	require.NoError(t, repo.MarkRead(ctx, n1.ID, "u1"))
	cnt, err = repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	// 非本人标记不生效
	err = repo.MarkRead(ctx, n2.ID, "u2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	affected, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	cnt, err = repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestNotificationPurgeReadBefore(t *testing.T) {
	repo := NewNotificationRepository(setupTestDB(t))
	ctx := context.Background()

	read := &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "old, read"}
	unread := &model.Notification{UserID: "u1", Type: model.NotificationTypeOrder, Title: "old, unread"}
	require.NoError(t, repo.Create(ctx, read))
	require.NoError(t, repo.Create(ctx, unread))
	require.NoError(t, repo.MarkRead(ctx, read.ID, "u1"))

	// 截止时间在未来：命中全部已读，未读不受影响
	purged, err := repo.PurgeReadBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	list, err := repo.ListByUserID(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, unread.ID, list[0].ID)

	// 截止时间在过去：没有可清理的
	purged, err = repo.PurgeReadBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestNotificationDelete(t *testing.T) {
	repo := NewNotificationRepository(setupTestDB(t))
	ctx := context.Background()

	n := &model.Notification{UserID: "u1", Type: model.NotificationTypeSystem, Title: "bye"}
	require.NoError(t, repo.Create(ctx, n))

	require.ErrorIs(t, repo.Delete(ctx, n.ID, "u2"), gorm.ErrRecordNotFound)
	require.NoError(t, repo.Delete(ctx, n.ID, "u1"))

	list, err := repo.ListByUserID(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}
