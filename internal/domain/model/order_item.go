package model

import (
	"time"

	"albummai/internal/domain/catalog"
)

// 購入時点の表示データと価格をコピーして持つ（価格表の変更は影響しない）
type OrderItem struct {
	ID                  int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64             `gorm:"not null;index" json:"orderId"`
	AlbumID             int64             `gorm:"not null;index" json:"albumId"`
	AlbumTitle          string            `gorm:"type:varchar(255);not null" json:"albumTitle"`
	BookFormat          string            `gorm:"type:varchar(50);not null" json:"bookFormat"`
	FormatTitle         string            `gorm:"type:varchar(255);not null" json:"formatTitle"`
	FormatDimensions    string            `gorm:"type:varchar(100);not null" json:"formatDimensions"`
	CoverType           catalog.CoverType `gorm:"type:varchar(20);not null" json:"coverType"`
	PageCount           int               `gorm:"not null" json:"pageCount"`
	ShippingOption      string            `gorm:"type:varchar(50);not null" json:"shippingOption"`
	ShippingTitle       string            `gorm:"type:varchar(255);not null" json:"shippingTitle"`
	ShippingDescription string            `gorm:"type:text" json:"shippingDescription"`
	EstimatedDays       int               `gorm:"not null" json:"estimatedDays"`
	Quantity            int               `gorm:"not null" json:"quantity"`
	UnitPrice           int64             `gorm:"not null" json:"unitPrice"`
	ShippingPrice       int64             `gorm:"not null" json:"shippingPrice"`
	TotalPrice          int64             `gorm:"not null" json:"totalPrice"`
	Customizations      map[string]any    `gorm:"serializer:json;type:text" json:"customizations"`
	CreatedAt           time.Time         `gorm:"not null;autoCreateTime" json:"createdAt"`
}
