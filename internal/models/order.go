package models

import "time"

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderItem represents a single line within an order.
type OrderItem struct {
	ProductID  string `json:"productId" validate:"required"`
	Name       string `json:"name"`
	Size       string `json:"size" validate:"required"`
	Color      string `json:"color"`
	CustomText string `json:"customText,omitempty" validate:"max=60"`
	Quantity   int    `json:"quantity" validate:"gte=1,lte=10"`
	Price      int64  `json:"price"` // Price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID          string      `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string      `json:"userId" gorm:"index;type:varchar(36)"`
	Items       []OrderItem `json:"items" gorm:"serializer:json"`
	TotalAmount int64       `json:"totalAmount"`
	Status      string      `json:"status" gorm:"type:varchar(20)"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// PlaceOrderRequest is the body accepted when a customer checks out.
type PlaceOrderRequest struct {
	Items []OrderItem `json:"items" validate:"required,min=1,dive"`
}
