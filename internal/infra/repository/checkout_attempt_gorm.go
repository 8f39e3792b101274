package repository

import (
	"context"
	"errors"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"

	"gorm.io/gorm"
)

type CheckoutAttemptGormRepository struct {
	db *gorm.DB
}

func NewCheckoutAttemptGormRepository(db *gorm.DB) *CheckoutAttemptGormRepository {
	return &CheckoutAttemptGormRepository{db: db}
}

func (r *CheckoutAttemptGormRepository) Create(ctx context.Context, attempt model.CheckoutAttempt) (model.CheckoutAttempt, error) {
	err := r.db.WithContext(ctx).Create(&attempt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.CheckoutAttempt{}, repo.ErrDuplicate
	}
	if err != nil {
		return model.CheckoutAttempt{}, err
	}
	return attempt, nil
}

func (r *CheckoutAttemptGormRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (model.CheckoutAttempt, error) {
	var a model.CheckoutAttempt
	err := r.db.WithContext(ctx).Where("provider_order_id = ?", providerOrderID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CheckoutAttempt{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CheckoutAttempt{}, err
	}
	return a, nil
}

// 条件付きUPDATEで状態を奪い合う。0行なら他が先に遷移させた
func (r *CheckoutAttemptGormRepository) TransitionStatus(ctx context.Context, attemptID int64, from, to model.CheckoutStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CheckoutAttempt{}).
		Where("id = ? AND status = ?", attemptID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *CheckoutAttemptGormRepository) MarkCaptured(ctx context.Context, attemptID int64, orderID *int64, payload string) error {
	res := r.db.WithContext(ctx).
		Model(&model.CheckoutAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]any{
			"status":          model.CheckoutStatusCaptured,
			"order_id":        orderID,
			"capture_payload": payload,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
