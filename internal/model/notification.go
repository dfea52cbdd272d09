package model

import "time"

// 通知类型
const (
	NotificationTypeOrder    = "order"
	NotificationTypeDelivery = "delivery"
	NotificationTypePayment  = "payment"
	NotificationTypeSystem   = "system"
)

// Notification 站内通知
type Notification struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index:idx_notif_user_created;not null"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Body      string    `json:"body" gorm:"type:text"`
	OrderID   string    `json:"order_id,omitempty" gorm:"type:varchar(36);index"`
	IsRead    bool      `json:"is_read" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_notif_user_created"`
}

func (Notification) TableName() string { return "notifications" }
