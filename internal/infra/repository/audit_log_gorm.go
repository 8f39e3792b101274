package repository

import (
	"context"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

// 管理者の注文更新と同じTxで書く
func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

const maxAuditLogs = 200

func (r *AuditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxAuditLogs {
		limit = maxAuditLogs
	}

	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Scopes(auditLogFilterScope(filter)).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return logs, nil
}

func auditLogFilterScope(f repo.AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.OrderID != nil {
			q = q.Where("resource_type = ? AND resource_id = ?", model.AuditResourceOrder, *f.OrderID)
		}
		if f.ActorUserID != nil {
			q = q.Where("actor_user_id = ?", *f.ActorUserID)
		}
		if f.Action != nil {
			q = q.Where("action = ?", *f.Action)
		}
		if f.From != nil {
			q = q.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			q = q.Where("created_at <= ?", *f.To)
		}
		return q
	}
}
