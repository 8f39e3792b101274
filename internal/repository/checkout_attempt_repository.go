package repository

import (
	"context"

	"albummai/internal/domain/model"
)

type CheckoutAttemptRepository interface {
	Create(ctx context.Context, attempt model.CheckoutAttempt) (model.CheckoutAttempt, error)
	FindByProviderOrderID(ctx context.Context, providerOrderID string) (model.CheckoutAttempt, error)
	// from の状態の時だけ to にする。更新できたら true
	TransitionStatus(ctx context.Context, attemptID int64, from, to model.CheckoutStatus) (bool, error)
	MarkCaptured(ctx context.Context, attemptID int64, orderID *int64, payload string) error
}
