package model

import "time"

// Review 商品评价，按 (user_id, product_id, order_id) 唯一：
// 同一订单内同一商品的多件数量共享一条评价。
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index:idx_review_user;uniqueIndex:ux_review_owner;not null"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index:idx_review_product;uniqueIndex:ux_review_owner;not null"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(36);uniqueIndex:ux_review_owner;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Images    string    `json:"images" gorm:"type:text"` // JSON 数组序列化存储
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }
