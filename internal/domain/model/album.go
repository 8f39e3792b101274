package model

import (
	"time"

	"gorm.io/gorm"
)

// ユーザーが作ったアルバム（中身のデザインは別サービス）
type Album struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64          `gorm:"not null;index" json:"userId"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
