package models

import "time"

// OrderStatus represents all possible states of a restaurant order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPrepared  OrderStatus = "Prepared"
	StatusCompleted OrderStatus = "Completed"
	StatusFailed    OrderStatus = "Failed"
)

// PaymentMode is how a transaction was paid
type PaymentMode string

const (
	ModeCard PaymentMode = "Card"
	ModeCash PaymentMode = "Cash"
	ModeUpi  PaymentMode = "Upi"
)

type Order struct {
	ID         string      `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	TableID    string      `json:"tableId" gorm:"index;size:24;not null" bson:"tableId"`
	CustomerID string      `json:"customerId" gorm:"index;size:24;not null" bson:"customerId"`
	Items      []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items"`
	Amount     float64     `json:"amount" gorm:"not null" bson:"amount"`
	Status     OrderStatus `json:"status" gorm:"index;size:16;not null;default:'Pending'" bson:"status"`
	CreatedAt  time.Time   `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem is copied from the cart at checkout; Name and Price are snapshots
type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey" bson:"-"`
	OrderID    string  `json:"-" gorm:"index;size:24" bson:"-"`
	MenuItemID string  `json:"menuItemId" gorm:"size:24;not null" bson:"menuItem"`
	Quantity   int     `json:"quantity" gorm:"not null" bson:"quantity"`
	Name       string  `json:"name" bson:"name"`
	Price      float64 `json:"price" bson:"price"`
}

// OrderStatusHistory tracks every status change of an order
type OrderStatusHistory struct {
	ID         string      `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	OrderID    string      `json:"orderId" gorm:"index;size:24;not null" bson:"orderId"`
	FromStatus OrderStatus `json:"fromStatus" gorm:"size:16" bson:"fromStatus,omitempty"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"size:16;not null" bson:"toStatus"`
	ChangedBy  string      `json:"changedBy" gorm:"size:24" bson:"changedBy"`
	Note       string      `json:"note" bson:"note,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}

// Transaction is the payment record written alongside an order
type Transaction struct {
	ID        string      `json:"id" gorm:"primaryKey;size:24" bson:"_id"`
	Mode      PaymentMode `json:"mode" gorm:"size:8;not null" bson:"mode"`
	Amount    float64     `json:"amount" gorm:"not null" bson:"amount"`
	Success   bool        `json:"success" bson:"success"`
	OrderID   string      `json:"orderId" gorm:"uniqueIndex;size:24;not null" bson:"orderId"`
	CreatedAt time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt" bson:"updatedAt"`
}
