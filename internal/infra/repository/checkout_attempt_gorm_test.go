package repository_test

import (
	"context"
	"testing"

	"albummai/internal/domain/model"
	infrarepo "albummai/internal/infra/repository"
	repo "albummai/internal/repository"
	"albummai/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutAttemptGorm_TransitionOnlyFromExpectedStatus(t *testing.T) {
	gdb := testutil.NewSQLite(t)
	r := infrarepo.NewCheckoutAttemptGormRepository(gdb)
	ctx := context.Background()

	a, err := r.Create(ctx, model.CheckoutAttempt{
		UserID: 1, IdempotencyKey: "key-1", ProviderOrderID: "PP-1",
		Amount: 52400, Currency: "PLN", Status: model.CheckoutStatusCreated,
	})
	require.NoError(t, err)

	ok, err := r.TransitionStatus(ctx, a.ID, model.CheckoutStatusCreated, model.CheckoutStatusCapturing)
	require.NoError(t, err)
	assert.True(t, ok)

	// 2回目の取得は負ける
	ok, err = r.TransitionStatus(ctx, a.ID, model.CheckoutStatusCreated, model.CheckoutStatusCapturing)
	require.NoError(t, err)
	assert.False(t, ok)

	orderID := int64(7)
	require.NoError(t, r.MarkCaptured(ctx, a.ID, &orderID, `{"status":"COMPLETED"}`))

	got, err := r.FindByProviderOrderID(ctx, "PP-1")
	require.NoError(t, err)
	assert.Equal(t, model.CheckoutStatusCaptured, got.Status)
	require.NotNil(t, got.OrderID)
	assert.Equal(t, int64(7), *got.OrderID)
	assert.JSONEq(t, `{"status":"COMPLETED"}`, got.CapturePayload)
}

func TestCheckoutAttemptGorm_NotFoundAndDuplicate(t *testing.T) {
	gdb := testutil.NewSQLite(t)
	r := infrarepo.NewCheckoutAttemptGormRepository(gdb)
	ctx := context.Background()

	_, err := r.FindByProviderOrderID(ctx, "missing")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	a := model.CheckoutAttempt{UserID: 1, IdempotencyKey: "key-1", ProviderOrderID: "PP-1", Amount: 1, Currency: "PLN", Status: model.CheckoutStatusCreated}
	_, err = r.Create(ctx, a)
	require.NoError(t, err)
	a.IdempotencyKey = "key-2"
	_, err = r.Create(ctx, a)
	assert.ErrorIs(t, err, repo.ErrDuplicate)

	assert.ErrorIs(t, r.MarkCaptured(ctx, 999, nil, "{}"), repo.ErrNotFound)
}
