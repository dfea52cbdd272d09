package model

import "time"

// OrderStatus 订单状态
const (
	OrderStatusPending          = "pending"
	OrderStatusConfirmed        = "confirmed"
	OrderStatusPartiallyShipped = "partially-shipped"
	OrderStatusShipped          = "shipped"
	OrderStatusDelivered        = "delivered"
	OrderStatusCancelled        = "cancelled"
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// DeliveryStatus 发货单状态
const (
	DeliveryStatusShipped   = "shipped"
	DeliveryStatusInTransit = "in-transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

// Order 订单
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"user_id" gorm:"type:varchar(36);index:idx_order_user_created;not null"`
	Status        string      `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	PaymentStatus string      `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod string      `json:"payment_method" gorm:"type:varchar(32)"`
	Amount        float64     `json:"amount" gorm:"type:decimal(10,2);not null"`
	Address       string      `json:"address" gorm:"type:text"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Deliveries    []Delivery  `json:"deliveries" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time   `json:"created_at" gorm:"index:idx_order_user_created"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行，下单时对商品做价格快照。
// 不变式：IsDelivered 为 true 当且仅当该行数量已被发货单完全覆盖。
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string  `json:"order_id" gorm:"type:varchar(36);index:idx_item_order;not null"`
	ProductID   string  `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Name        string  `json:"name" gorm:"type:varchar(255);not null"`
	Image       string  `json:"image" gorm:"type:varchar(512)"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	IsDelivered bool    `json:"is_delivered" gorm:"not null;default:false"`
}

func (OrderItem) TableName() string { return "order_items" }

// Delivery 发货单（部分发货记录），创建后不可变，只追加
type Delivery struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string         `json:"order_id" gorm:"type:varchar(36);index:idx_delivery_order;not null"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'shipped'"`
	Items     []DeliveryItem `json:"items" gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

func (Delivery) TableName() string { return "deliveries" }

// DeliveryItem 发货单中的一项
type DeliveryItem struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DeliveryID string `json:"delivery_id" gorm:"type:varchar(36);index:idx_ditem_delivery;not null"`
	ProductID  string `json:"product_id" gorm:"type:varchar(36);not null"`
	Quantity   int    `json:"quantity" gorm:"not null"`
}

func (DeliveryItem) TableName() string { return "delivery_items" }
