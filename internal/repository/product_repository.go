package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/shop-api/internal/model"
)

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// Create 创建商品
	Create(ctx context.Context, p *model.Product) error

	// GetByID 按 ID 查询
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// List 分页查询，category 为空时不过滤
	List(ctx context.Context, category string, offset, limit int) ([]*model.Product, error)

	// Update 更新商品字段
	Update(ctx context.Context, p *model.Product) error

	// Delete 删除商品
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, category string, offset, limit int) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var list []*model.Product
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"image":       p.Image,
			"price":       p.Price,
			"stock":       p.Stock,
			"category":    p.Category,
		}).Error
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}).Error
}
