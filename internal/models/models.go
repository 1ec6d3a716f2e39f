package models

import (
	"time"
)

const (
	RoleFarmer = "Farmer"
	RoleBuyer  = "Buyer"
	RoleAdmin  = "Admin"
)

const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

// ProductCategories is the closed set of categories a product may carry.
var ProductCategories = []string{"Vegetables", "Fruits", "Seeds", "Dairy", "Meat", "Equipment"}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName     string `gorm:"not null"                 json:"fullname"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Phone        string `gorm:"not null"                 json:"phone"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
	IsActive     bool   `gorm:"default:true"             json:"is_active"`
}

type FarmerProfile struct {
	ID             uint    `gorm:"primaryKey"               json:"id"`
	UserID         uint    `gorm:"uniqueIndex;not null"     json:"user_id"`
	FarmName       string  `gorm:"not null"                 json:"farm_name"`
	Location       string  `gorm:"not null"                 json:"location"`
	FarmSize       float64 `gorm:"not null"                 json:"farm_size"`
	ApprovalStatus string  `gorm:"not null;default:pending" json:"approval_status"`
}

type BuyerProfile struct {
	ID              uint   `gorm:"primaryKey"           json:"id"`
	UserID          uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	DeliveryAddress string `gorm:"not null"             json:"delivery_address"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FarmerID    uint    `gorm:"index;not null"           json:"farmer_id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Category    string  `gorm:"not null"                 json:"category"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Quantity    uint    `gorm:"not null"                 json:"quantity"`
}

type Order struct {
	ID         uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID    uint        `gorm:"index;not null"           json:"buyer_id"`
	TotalPrice float64     `gorm:"not null"                 json:"total_price"`
	Status     string      `gorm:"not null;default:Pending" json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"       json:"items,omitempty"`
}

// OrderItem snapshots quantity and unit price at purchase time; later product
// edits must not show up in order history.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey"           json:"id"`
	OrderID   uint    `gorm:"index;not null"       json:"order_id"`
	ProductID uint    `gorm:"not null"             json:"product_id"`
	Quantity  uint    `gorm:"not null"             json:"quantity"`
	UnitPrice float64 `gorm:"not null"             json:"unit_price"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                                       json:"id"`
	UserID    uint `gorm:"index;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product"       json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity>0"                        json:"quantity"`
}

type Chat struct {
	ID       uint `gorm:"primaryKey;autoIncrement"                   json:"id"`
	BuyerID  uint `gorm:"not null;uniqueIndex:idx_chat_buyer_farmer" json:"buyer_id"`
	FarmerID uint `gorm:"not null;uniqueIndex:idx_chat_buyer_farmer" json:"farmer_id"`
}

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    uint      `gorm:"index;not null"           json:"chat_id"`
	SenderID  uint      `gorm:"not null"                 json:"sender_id"`
	Content   string    `gorm:"not null"                 json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// ValidCategory reports whether c is one of ProductCategories.
func ValidCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}
