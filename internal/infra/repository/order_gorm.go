package repository

import (
	"context"
	"errors"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

// 新しい順
func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&orders).Error; err != nil {
		return []model.Order{}, err
	}
	return orders, nil
}

// 注文番号が重複した場合は ErrDuplicate を返す。
// SAVEPOINTで包むので、外側のTxは失敗せずに番号を作り直せる。
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, repo.ErrDuplicate
	}
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateFulfillment(ctx context.Context, order model.Order) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":          order.Status,
			"tracking_number": order.TrackingNumber,
			"notes":           order.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	f.Page, f.Limit = normalizePage(f.Page, f.Limit)

	q := r.db.WithContext(ctx).Model(&model.Order{})

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	//user_id 絞り込み
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	//期間絞り込み
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var orders []model.Order
	if err := q.Order("id desc").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&orders).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return orders, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return page, limit
}
