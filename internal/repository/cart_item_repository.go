package repository

import (
	"context"

	"albummai/internal/domain/model"
)

type CartItemRepository interface {
	// 新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 注文確定用（Tx内で行ロックを取る）
	LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 所有者で絞って1件取得
	FindByID(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error)
	FindByKey(ctx context.Context, key model.CartItemKey) (model.CartItem, error)
	// 同一構成があれば数量を加算して価格を書き換え、無ければ作成
	UpsertAdd(ctx context.Context, item model.CartItem) (model.CartItem, error)
	Update(ctx context.Context, item model.CartItem) error
	DeleteByID(ctx context.Context, userID int64, cartItemID int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}
