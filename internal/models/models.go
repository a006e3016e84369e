package models

import (
	"time"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `json:"description"`
	Category    string    `gorm:"index"                     json:"category"`
	RetailPrice float64   `gorm:"not null"                  json:"retail_price"`
	Stock       uint      `gorm:"not null;default:0"        json:"stock"`
	Bestseller  bool      `gorm:"not null;default:false"    json:"bestseller"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// Order is immutable after checkout except for Status. Customer fields are a
// snapshot of the delivery details submitted at checkout time.
type Order struct {
	ID              uint        `gorm:"primaryKey"     json:"id"`
	UserID          uint        `gorm:"index;not null" json:"user_id"`
	UserEmail       string      `json:"user_email"`
	CustomerName    string      `gorm:"not null"       json:"customer_name"`
	CustomerPhone   string      `gorm:"not null"       json:"customer_phone"`
	CustomerAddress string      `gorm:"not null"       json:"customer_address"`
	Total           float64     `gorm:"not null"       json:"total"`
	Status          string      `gorm:"not null"       json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	Items           []OrderItem `json:"items"`
}

type OrderItem struct {
	ID          uint    `gorm:"primaryKey"                  json:"id"`
	OrderID     uint    `gorm:"index;not null"              json:"order_id"`
	ProductID   uint    `gorm:"not null"                    json:"product_id"`
	ProductName string  `gorm:"not null"                    json:"product_name"`
	Quantity    uint    `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice   float64 `gorm:"not null"                    json:"unit_price"`
}

// Hero is a singleton row, always stored with ID 1.
type Hero struct {
	ID         uint      `gorm:"primaryKey"    json:"-"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	ButtonText string    `json:"button_text"`
	ButtonLink string    `json:"button_link"`
	ImageURL   string    `json:"image_url"`
	IsActive   bool      `gorm:"default:false" json:"is_active"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `gorm:"not null"                 json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
