package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/shop-api/internal/model"
)

// ReviewRepository 评价仓储接口
type ReviewRepository interface {
	// Upsert 按 (user_id, product_id, order_id) 幂等写入：已存在则更新内容
	Upsert(ctx context.Context, review *model.Review) error

	// GetByID 查询单条评价
	GetByID(ctx context.Context, id string) (*model.Review, error)

	// ListByUserID 查询用户全部评价
	ListByUserID(ctx context.Context, userID string) ([]*model.Review, error)

	// ListByProductID 查询商品评价，按时间倒序
	ListByProductID(ctx context.Context, productID string, limit int) ([]*model.Review, error)

	// Delete 删除评价（仅本人）
	Delete(ctx context.Context, id, userID string) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "images", "updated_at"}),
	}).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) ListByProductID(ctx context.Context, productID string, limit int) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Delete(ctx context.Context, id, userID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
