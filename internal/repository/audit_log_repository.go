package repository

import (
	"context"
	"time"

	"albummai/internal/domain/model"
)

// 監査ログの絞り込み。OrderID を指定すると注文の操作履歴になる
type AuditLogFilter struct {
	OrderID     *int64
	ActorUserID *int64
	Action      *model.AuditAction
	From        *time.Time
	To          *time.Time
	Limit       int
}

type AuditLogRepository interface {
	// 注文の更新と同じTxで書く
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
