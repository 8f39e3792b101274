package model

import "time"

// 管理者の操作の種類
type AuditAction string

const (
	//注文のステータス・追跡番号・メモを更新した操作。
	AuditActionUpdateOrder AuditAction = "UPDATE_ORDER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した管理者のID。
	ActorUserID int64 `gorm:"not null;index" json:"actorUserId"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`

	ResourceID int64 `gorm:"not null;index" json:"resourceId"`

	//変更前後はJSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"beforeJson"`
	AfterJSON  string `gorm:"type:text" json:"afterJson"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
