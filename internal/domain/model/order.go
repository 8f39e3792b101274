package model

import (
	"slices"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// 遷移できる先（cancelledは終端以外ならどこからでも）
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusCancelled},
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	default:
		return "", false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition は同じ状態への更新も許可する（何もしない扱い）
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	next, ok := orderStatusTransitions[from]
	if !ok {
		return false
	}
	return slices.Contains(next, to)
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

func (c CustomerInfo) IsZero() bool {
	return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.Email) == "" && strings.TrimSpace(c.Phone) == ""
}

type ShippingAddress struct {
	Name       string `json:"name,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func (a ShippingAddress) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}

// 注文（明細は OrderItem にスナップショットで保存）
type Order struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber       string          `gorm:"type:varchar(32);not null;uniqueIndex" json:"orderNumber"`
	UserID            int64           `gorm:"not null;index" json:"userId"`
	Status            OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	Subtotal          int64           `gorm:"not null" json:"subtotal"`
	ShippingTotal     int64           `gorm:"not null" json:"shippingTotal"`
	Tax               int64           `gorm:"not null;default:0" json:"tax"`
	Total             int64           `gorm:"not null" json:"total"`
	Currency          string          `gorm:"type:varchar(3);not null" json:"currency"`
	CustomerInfo      CustomerInfo    `gorm:"serializer:json;type:text;not null" json:"customerInfo"`
	ShippingAddress   ShippingAddress `gorm:"serializer:json;type:text;not null" json:"shippingAddress"`
	PaymentMethod     string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	PaymentReference  string          `gorm:"type:varchar(128)" json:"paymentReference,omitempty"`
	Notes             string          `gorm:"type:text" json:"notes,omitempty"`
	EstimatedDelivery time.Time       `gorm:"not null" json:"estimatedDelivery"`
	TrackingNumber    *string         `gorm:"type:varchar(128)" json:"trackingNumber,omitempty"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
