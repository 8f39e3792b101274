package usecase

import "context"

// PromotionPolicy はプロモ配送料の対象かどうかを決める
type PromotionPolicy interface {
	IsPromotional(ctx context.Context, userID int64) bool
}

// NoPromotion は常に通常料金
type NoPromotion struct{}

func (NoPromotion) IsPromotional(context.Context, int64) bool { return false }
