package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

func TestReviewUpsertIsIdempotentPerOwner(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	ctx := context.Background()

	first := &model.Review{UserID: "u1", ProductID: "P1", OrderID: "A1", Rating: 4, Comment: "good"}
	require.NoError(t, repo.Upsert(ctx, first))

	// 同一 (user, product, order) 再次提交：更新而非新增
	second := &model.Review{UserID: "u1", ProductID: "P1", OrderID: "A1", Rating: 2, Comment: "changed my mind"}
	require.NoError(t, repo.Upsert(ctx, second))

	list, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Rating)
	assert.Equal(t, "changed my mind", list[0].Comment)

	// 不同订单的同一商品是另一条评价
	require.NoError(t, repo.Upsert(ctx, &model.Review{UserID: "u1", ProductID: "P1", OrderID: "A2", Rating: 5}))
	list, err = repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestReviewDeleteOnlyOwner(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	ctx := context.Background()

	review := &model.Review{UserID: "u1", ProductID: "P1", OrderID: "A1", Rating: 5}
	require.NoError(t, repo.Upsert(ctx, review))

	err := repo.Delete(ctx, review.ID, "u2")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, review.ID, "u1"))
	list, err := repo.ListByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReviewListByProductID(t *testing.T) {
	repo := NewReviewRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &model.Review{UserID: "u1", ProductID: "P1", OrderID: "A1", Rating: 5}))
	require.NoError(t, repo.Upsert(ctx, &model.Review{UserID: "u2", ProductID: "P1", OrderID: "B1", Rating: 3}))
	require.NoError(t, repo.Upsert(ctx, &model.Review{UserID: "u3", ProductID: "P2", OrderID: "C1", Rating: 1}))

	list, err := repo.ListByProductID(ctx, "P1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
