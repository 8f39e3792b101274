package model

import "time"

type CheckoutStatus string

const (
	CheckoutStatusCreated   CheckoutStatus = "created"
	CheckoutStatusCapturing CheckoutStatus = "capturing"
	CheckoutStatusCaptured  CheckoutStatus = "captured"
	CheckoutStatusFailed    CheckoutStatus = "failed"
)

// 決済プロバイダ側の注文1件につき1行
// IdempotencyKey はプロバイダへの PayPal-Request-Id にも使う。
type CheckoutAttempt struct {
	ID              int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64          `gorm:"not null;index" json:"userId"`
	IdempotencyKey  string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"idempotencyKey"`
	ProviderOrderID string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"providerOrderId"`
	Amount          int64          `gorm:"not null" json:"amount"`
	Currency        string         `gorm:"type:varchar(3);not null" json:"currency"`
	Status          CheckoutStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	OrderID         *int64         `gorm:"index" json:"orderId,omitempty"`
	CapturePayload  string         `gorm:"type:text" json:"-"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
