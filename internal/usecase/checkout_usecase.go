package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"albummai/internal/domain/catalog"
	"albummai/internal/domain/model"
	"albummai/internal/infra/paypal"
	repo "albummai/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentGateway は決済プロバイダ（PayPal）
type PaymentGateway interface {
	CreateOrder(ctx context.Context, requestID string, in paypal.CreateOrderInput) (paypal.Order, error)
	CaptureOrder(ctx context.Context, requestID string, orderID string) (paypal.Capture, error)
}

// CheckoutUsecase はPayPalの注文作成とキャプチャ
// キャプチャはCheckoutAttemptの状態で1回だけ実行する。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
	attempts  repo.CheckoutAttemptRepository
	orders    *OrderUsecase
	gateway   PaymentGateway
	ids       IDGenerator
	currency  string
	log       *zap.Logger
}

// gateway が nil ならPayPal未設定として扱う
func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	attempts repo.CheckoutAttemptRepository,
	orders *OrderUsecase,
	gateway PaymentGateway,
	currency string,
	log *zap.Logger,
) *CheckoutUsecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutUsecase{
		tx:        tx,
		cartItems: cartItems,
		attempts:  attempts,
		orders:    orders,
		gateway:   gateway,
		ids:       uuidGenerator{},
		currency:  currency,
		log:       log,
	}
}

// WithIDGenerator はテスト用
func (u *CheckoutUsecase) WithIDGenerator(g IDGenerator) *CheckoutUsecase {
	u.ids = g
	return u
}

// Amount はクライアントが見ている合計（任意）。カートと違えば拒否する
type CreateCheckoutInput struct {
	Currency string
	Amount   *decimal.Decimal
}

type CreateCheckoutOutput struct {
	ID             string `json:"id"`
	IdempotencyKey string `json:"idempotencyKey"`
	Status         string `json:"status"`
}

// OrderData があればキャプチャ成功時に注文を作る
type CaptureCheckoutInput struct {
	OrderID   string
	OrderData *PlaceOrderInput
}

type CaptureCheckoutOutput struct {
	Status  string          `json:"status"`
	Order   *OrderOutput    `json:"order,omitempty"`
	Capture json.RawMessage `json:"capture,omitempty"`
}

func (u *CheckoutUsecase) CreateCheckout(ctx context.Context, userID int64, in CreateCheckoutInput) (CreateCheckoutOutput, error) {
	if userID <= 0 {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if u.gateway == nil {
		return CreateCheckoutOutput{}, internalError("paypal is not configured", errPayPalNotConfigured)
	}
	if c := strings.TrimSpace(in.Currency); c != "" && !strings.EqualFold(c, u.currency) {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "unsupported currency")
	}

	// 金額はサーバ側のカートから出す
	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CreateCheckoutOutput{}, dbError(err)
	}
	if len(items) == 0 {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	q := quoteCart(items)
	total := q.total()

	if in.Amount != nil && !in.Amount.Shift(catalog.MinorDigits).Equal(decimal.NewFromInt(total)) {
		return CreateCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "amount mismatch")
	}

	key := u.ids.NewString()
	o, err := u.gateway.CreateOrder(ctx, key, paypal.CreateOrderInput{
		Currency:  u.currency,
		ItemTotal: q.itemTotal,
		Shipping:  q.shipping,
		Items:     q.lines,
	})
	if err != nil {
		u.log.Error("paypal create order failed", zap.Int64("user_id", userID), zap.Error(err))
		return CreateCheckoutOutput{}, providerError(err)
	}

	attempt, err := u.attempts.Create(ctx, model.CheckoutAttempt{
		UserID:          userID,
		IdempotencyKey:  key,
		ProviderOrderID: o.ID,
		Amount:          total,
		Currency:        u.currency,
		Status:          model.CheckoutStatusCreated,
	})
	if err != nil {
		return CreateCheckoutOutput{}, dbError(err)
	}

	u.log.Info("checkout created",
		zap.Int64("user_id", userID),
		zap.String("provider_order_id", o.ID),
		zap.Int64("amount", total),
	)
	return CreateCheckoutOutput{ID: o.ID, IdempotencyKey: attempt.IdempotencyKey, Status: o.Status}, nil
}

// CaptureCheckout は同じ注文への再送ならキャプチャせずに前回の結果を返す
func (u *CheckoutUsecase) CaptureCheckout(ctx context.Context, userID int64, in CaptureCheckoutInput) (CaptureCheckoutOutput, error) {
	if userID <= 0 {
		return CaptureCheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if u.gateway == nil {
		return CaptureCheckoutOutput{}, internalError("paypal is not configured", errPayPalNotConfigured)
	}
	providerOrderID := strings.TrimSpace(in.OrderID)
	if providerOrderID == "" {
		return CaptureCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	if in.OrderData != nil {
		if err := in.OrderData.validate(); err != nil {
			return CaptureCheckoutOutput{}, err
		}
	}

	attempt, err := u.findAttempt(ctx, userID, providerOrderID)
	if err != nil {
		return CaptureCheckoutOutput{}, err
	}

	switch attempt.Status {
	case model.CheckoutStatusCaptured:
		return u.replay(ctx, userID, attempt)
	case model.CheckoutStatusFailed:
		return CaptureCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "payment was not completed")
	}

	// created -> capturing を取れた1リクエストだけがキャプチャする
	claimed, err := u.attempts.TransitionStatus(ctx, attempt.ID, model.CheckoutStatusCreated, model.CheckoutStatusCapturing)
	if err != nil {
		return CaptureCheckoutOutput{}, dbError(err)
	}
	if !claimed {
		latest, err := u.findAttempt(ctx, userID, providerOrderID)
		if err != nil {
			return CaptureCheckoutOutput{}, err
		}
		if latest.Status == model.CheckoutStatusCaptured {
			return u.replay(ctx, userID, latest)
		}
		return CaptureCheckoutOutput{}, NewHTTPError(http.StatusConflict, "capture already in progress")
	}

	// キャプチャするのは作成時の金額なので、カートが変わっていたら止める
	if in.OrderData != nil {
		if err := u.checkCartUnchanged(ctx, userID, attempt); err != nil {
			u.release(ctx, attempt.ID, model.CheckoutStatusCreated)
			return CaptureCheckoutOutput{}, err
		}
	}

	capture, err := u.gateway.CaptureOrder(ctx, "capture-"+attempt.IdempotencyKey, providerOrderID)
	if err != nil {
		u.log.Error("paypal capture failed",
			zap.String("provider_order_id", providerOrderID),
			zap.Error(err),
		)
		// 再試行できるように戻す
		u.release(ctx, attempt.ID, model.CheckoutStatusCreated)
		return CaptureCheckoutOutput{}, providerError(err)
	}

	if capture.Status != paypal.CaptureStatusCompleted {
		u.log.Warn("paypal capture not completed",
			zap.String("provider_order_id", providerOrderID),
			zap.String("status", capture.Status),
		)
		u.release(ctx, attempt.ID, model.CheckoutStatusFailed)
		return CaptureCheckoutOutput{}, NewHTTPError(http.StatusBadRequest, "payment was not completed")
	}

	out := CaptureCheckoutOutput{Status: capture.Status, Capture: capture.Raw}
	reference := capture.CaptureID
	if reference == "" {
		reference = capture.ID
	}

	if in.OrderData == nil {
		if err := u.attempts.MarkCaptured(ctx, attempt.ID, nil, string(capture.Raw)); err != nil {
			return CaptureCheckoutOutput{}, dbError(err)
		}
		return out, nil
	}

	// 注文作成とキャプチャ済みの記録は同じTx
	var order OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.orders.Finalize(ctx, r, userID, *in.OrderData, ConfirmedBy(reference))
		if err != nil {
			return err
		}
		// 入金額と違う注文は支払済みにしない
		if o.Total != attempt.Amount {
			return &HTTPError{
				Status:  http.StatusConflict,
				Message: errCartChanged,
				Err:     fmt.Errorf("order total %d, captured %d", o.Total, attempt.Amount),
			}
		}
		if err := r.CheckoutAttempts().MarkCaptured(ctx, attempt.ID, &o.ID, string(capture.Raw)); err != nil {
			return dbError(err)
		}
		order = o
		return nil
	})
	if err != nil {
		// 入金は済んでいるので、注文が作れなくてもキャプチャ済みにする
		u.log.Error("order finalization after capture failed",
			zap.Int64("user_id", userID),
			zap.String("provider_order_id", providerOrderID),
			zap.String("capture_id", reference),
			zap.Error(err),
		)
		if markErr := u.attempts.MarkCaptured(ctx, attempt.ID, nil, string(capture.Raw)); markErr != nil {
			u.log.Error("mark checkout captured failed", zap.Int64("attempt_id", attempt.ID), zap.Error(markErr))
		}
		if he, ok := AsHTTPError(err); ok && he.Status == http.StatusBadRequest {
			// カートが空などは生のキャプチャ結果を返す
			return out, nil
		}
		return CaptureCheckoutOutput{}, err
	}

	u.log.Info("order paid",
		zap.String("order_number", order.OrderNumber),
		zap.String("provider_order_id", providerOrderID),
	)
	out.Order = &order
	return out, nil
}

const errCartChanged = "cart changed since checkout"

type cartQuote struct {
	itemTotal int64
	shipping  int64
	lines     []paypal.Item
}

func (q cartQuote) total() int64 { return q.itemTotal + q.shipping }

func quoteCart(items []model.CartItem) cartQuote {
	q := cartQuote{lines: make([]paypal.Item, 0, len(items))}
	for _, it := range items {
		q.itemTotal += it.UnitPrice * int64(it.Quantity)
		q.shipping += it.ShippingPrice
		q.lines = append(q.lines, paypal.Item{
			Name:       fmt.Sprintf("Album %s %s (%d pages)", it.BookFormat, it.CoverType, it.PageCount),
			Quantity:   it.Quantity,
			UnitAmount: it.UnitPrice,
		})
	}
	return q
}

func (u *CheckoutUsecase) checkCartUnchanged(ctx context.Context, userID int64, attempt model.CheckoutAttempt) error {
	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return dbError(err)
	}
	if total := quoteCart(items).total(); total != attempt.Amount {
		u.log.Warn("cart changed since checkout",
			zap.String("provider_order_id", attempt.ProviderOrderID),
			zap.Int64("checkout_amount", attempt.Amount),
			zap.Int64("cart_total", total),
		)
		return NewHTTPError(http.StatusConflict, errCartChanged)
	}
	return nil
}

func (u *CheckoutUsecase) findAttempt(ctx context.Context, userID int64, providerOrderID string) (model.CheckoutAttempt, error) {
	a, err := u.attempts.FindByProviderOrderID(ctx, providerOrderID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && a.UserID != userID) {
		return model.CheckoutAttempt{}, NewHTTPError(http.StatusNotFound, "checkout not found")
	}
	if err != nil {
		return model.CheckoutAttempt{}, dbError(err)
	}
	return a, nil
}

// 2回目以降のキャプチャ要求
func (u *CheckoutUsecase) replay(ctx context.Context, userID int64, a model.CheckoutAttempt) (CaptureCheckoutOutput, error) {
	out := CaptureCheckoutOutput{Status: paypal.CaptureStatusCompleted}
	if a.CapturePayload != "" {
		out.Capture = json.RawMessage(a.CapturePayload)
	}
	if a.OrderID != nil {
		o, err := u.orders.GetMyOrder(ctx, userID, *a.OrderID)
		if err != nil {
			return CaptureCheckoutOutput{}, err
		}
		out.Order = &o
	}
	return out, nil
}

func (u *CheckoutUsecase) release(ctx context.Context, attemptID int64, to model.CheckoutStatus) {
	if _, err := u.attempts.TransitionStatus(ctx, attemptID, model.CheckoutStatusCapturing, to); err != nil {
		u.log.Error("release checkout attempt failed",
			zap.Int64("attempt_id", attemptID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
	}
}

// プロバイダのエラーは502（ステータスが分かればメッセージに入れる）
func providerError(err error) error {
	var apiErr *paypal.APIError
	if errors.As(err, &apiErr) {
		return &HTTPError{
			Status:  http.StatusBadGateway,
			Message: fmt.Sprintf("paypal error: upstream status %d", apiErr.StatusCode),
			Err:     err,
			Stack:   debug.Stack(),
		}
	}
	return &HTTPError{Status: http.StatusBadGateway, Message: "paypal error", Err: err, Stack: debug.Stack()}
}
