package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/d60-Lab/shop-api/internal/display"
	"github.com/d60-Lab/shop-api/internal/model"
	"github.com/d60-Lab/shop-api/internal/repository"
)

var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrProductNotInOrder = errors.New("product is not part of the order")
)

// SubmitReviewInput 评价提交入参
type SubmitReviewInput struct {
	ProductID string
	OrderID   string
	Rating    int
	Comment   string
	Images    []string
}

// ReviewService 评价服务
type ReviewService interface {
	// Submit 提交评价；同一 (用户, 商品, 订单) 重复提交视为修改。
	// 返回该用户的最新评价列表，便于客户端随后重新拉取订单做匹配。
	Submit(ctx context.Context, userID string, in SubmitReviewInput) ([]display.Review, error)

	// MyReviews 用户全部评价
	MyReviews(ctx context.Context, userID string) ([]display.Review, error)

	// ByProduct 商品维度评价列表
	ByProduct(ctx context.Context, productID string, limit int) ([]display.Review, error)

	// Delete 删除本人评价，返回删除后的最新列表
	Delete(ctx context.Context, userID, reviewID string) ([]display.Review, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	orders  repository.OrderRepository
}

// NewReviewService 创建评价服务
func NewReviewService(reviews repository.ReviewRepository, orders repository.OrderRepository) ReviewService {
	return &reviewService{reviews: reviews, orders: orders}
}

func (s *reviewService) Submit(ctx context.Context, userID string, in SubmitReviewInput) ([]display.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	found := false
	for _, it := range order.Items {
		if it.ProductID == in.ProductID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProductNotInOrder, in.ProductID)
	}

	review := &model.Review{
		UserID:    userID,
		ProductID: in.ProductID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}
	if len(in.Images) > 0 {
		raw, err := json.Marshal(in.Images)
		if err == nil {
			review.Images = string(raw)
		}
	}
	if err := s.reviews.Upsert(ctx, review); err != nil {
		return nil, err
	}
	return s.MyReviews(ctx, userID)
}

func (s *reviewService) MyReviews(ctx context.Context, userID string) ([]display.Review, error) {
	list, err := s.reviews.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDisplayReviews(list), nil
}

func (s *reviewService) ByProduct(ctx context.Context, productID string, limit int) ([]display.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := s.reviews.ListByProductID(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	return toDisplayReviews(list), nil
}

func (s *reviewService) Delete(ctx context.Context, userID, reviewID string) ([]display.Review, error) {
	if err := s.reviews.Delete(ctx, reviewID, userID); err != nil {
		return nil, err
	}
	return s.MyReviews(ctx, userID)
}
