package repository

import (
	"context"
	"errors"

	"albummai/internal/domain/model"
	repo "albummai/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// ユーザーの明細を新しい順で取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// 注文確定用。Tx内で呼ぶこと
func (r *CartItemGormRepository) LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

func (r *CartItemGormRepository) FindByKey(ctx context.Context, key model.CartItemKey) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where(&model.CartItem{
			UserID:         key.UserID,
			AlbumID:        key.AlbumID,
			BookFormat:     key.BookFormat,
			CoverType:      key.CoverType,
			PageCount:      key.PageCount,
			ShippingOption: key.ShippingOption,
		}).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一構成は1行のSQLで数量を加算する（読んでから書くと同時追加で数量が消える）
// 合計は加算後の数量から計算し直す。
func (r *CartItemGormRepository) UpsertAdd(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if item.Quantity <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}

	updates := clause.Set{
		{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + ?", item.Quantity)},
		{Column: clause.Column{Name: "unit_price"}, Value: item.UnitPrice},
		{Column: clause.Column{Name: "shipping_price"}, Value: item.ShippingPrice},
		{
			Column: clause.Column{Name: "total_price"},
			Value:  gorm.Expr("(cart_items.quantity + ?) * ? + ?", item.Quantity, item.UnitPrice, item.ShippingPrice),
		},
	}
	updates = append(updates, clause.AssignmentColumns([]string{"updated_at"})...)
	// 追加時に指定があれば上書き
	if item.Customizations != nil {
		updates = append(updates, clause.AssignmentColumns([]string{"customizations"})...)
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "album_id"}, {Name: "book_format"},
				{Name: "cover_type"}, {Name: "page_count"}, {Name: "shipping_option"},
			},
			DoUpdates: updates,
		}).
		Create(&item).Error
	if err != nil {
		return model.CartItem{}, err
	}

	// 衝突時は返ってくるIDが当てにならないのでキーで読み直す
	return r.FindByKey(ctx, item.Key())
}

// 構成・数量・価格・カスタマイズをまとめて書き換える（ゼロ値も更新）
func (r *CartItemGormRepository) Update(ctx context.Context, item model.CartItem) error {
	res := r.db.WithContext(ctx).
		Model(&item).
		Where("user_id = ?", item.UserID).
		Select(
			"book_format", "cover_type", "page_count", "shipping_option",
			"quantity", "unit_price", "shipping_price", "total_price", "customizations",
		).
		Updates(&item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartItemGormRepository) DeleteByID(ctx context.Context, userID int64, cartItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", cartItemID, userID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 空でもエラーにしない
func (r *CartItemGormRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
