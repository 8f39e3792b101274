package model

import (
	"time"

	"albummai/internal/domain/catalog"
)

// カートの明細（ユーザー単位）
// 価格3項目は常に現在の価格表から再計算した値を保存する。
type CartItem struct {
	ID             int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64             `gorm:"not null;uniqueIndex:idx_cart_items_configuration,priority:1" json:"userId"`
	AlbumID        int64             `gorm:"not null;uniqueIndex:idx_cart_items_configuration,priority:2" json:"albumId"`
	BookFormat     string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_cart_items_configuration,priority:3" json:"bookFormat"`
	CoverType      catalog.CoverType `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_items_configuration,priority:4" json:"coverType"`
	PageCount      int               `gorm:"not null;default:24;uniqueIndex:idx_cart_items_configuration,priority:5" json:"pageCount"`
	ShippingOption string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_cart_items_configuration,priority:6" json:"shippingOption"`
	Quantity       int               `gorm:"not null" json:"quantity"`
	UnitPrice      int64             `gorm:"not null" json:"unitPrice"`
	ShippingPrice  int64             `gorm:"not null" json:"shippingPrice"`
	TotalPrice     int64             `gorm:"not null" json:"totalPrice"`
	Customizations map[string]any    `gorm:"serializer:json;type:text" json:"customizations"`
	CreatedAt      time.Time         `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// CartItemKey は同一明細とみなす組み合わせ
type CartItemKey struct {
	UserID         int64
	AlbumID        int64
	BookFormat     string
	CoverType      catalog.CoverType
	PageCount      int
	ShippingOption string
}

func (c CartItem) Key() CartItemKey {
	return CartItemKey{
		UserID:         c.UserID,
		AlbumID:        c.AlbumID,
		BookFormat:     c.BookFormat,
		CoverType:      c.CoverType,
		PageCount:      c.PageCount,
		ShippingOption: c.ShippingOption,
	}
}
