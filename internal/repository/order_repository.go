package repository

import (
	"context"
	"time"

	"albummai/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// ユーザーの注文を全件、新しい順で返す
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	// 注文番号が重複したら ErrDuplicate
	Create(ctx context.Context, order model.Order) (int64, error)
	// ステータス・追跡番号・メモだけ更新する
	UpdateFulfillment(ctx context.Context, order model.Order) error
	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
