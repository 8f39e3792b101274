package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"albummai/internal/domain/catalog"
	"albummai/internal/domain/model"
	repo "albummai/internal/repository"
)

// 注文番号の作り直し上限
const maxOrderNumberAttempts = 5

// PaymentConfirmation は注文確定時点での支払い状態
type PaymentConfirmation struct {
	Confirmed bool
	Reference string
}

func Unconfirmed() PaymentConfirmation { return PaymentConfirmation{} }

// ConfirmedBy は決済プロバイダで入金済み（referenceはキャプチャID）
func ConfirmedBy(reference string) PaymentConfirmation {
	return PaymentConfirmation{Confirmed: true, Reference: reference}
}

type OrderUsecase struct {
	tx       repo.TransactionManager
	catalog  *catalog.Catalog
	numbers  OrderNumberGenerator
	clock    Clock
	currency string
}

func NewOrderUsecase(tx repo.TransactionManager, cat *catalog.Catalog, numbers OrderNumberGenerator, currency string) *OrderUsecase {
	if numbers == nil {
		numbers = NewULIDOrderNumbers(nil)
	}
	return &OrderUsecase{
		tx:       tx,
		catalog:  cat,
		numbers:  numbers,
		clock:    realClock{},
		currency: currency,
	}
}

// WithClock はテスト用
func (u *OrderUsecase) WithClock(c Clock) *OrderUsecase {
	u.clock = c
	return u
}

type PlaceOrderInput struct {
	CustomerInfo    model.CustomerInfo
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	Notes           string
}

func (in PlaceOrderInput) validate() error {
	if in.CustomerInfo.IsZero() || in.ShippingAddress.IsZero() || strings.TrimSpace(in.PaymentMethod) == "" {
		return NewHTTPError(http.StatusBadRequest, "missing required fields")
	}
	return nil
}

type OrderOutput struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// PlaceOrder はカートから未払いの注文を作る
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := u.Finalize(ctx, r, userID, in, Unconfirmed())
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// Finalize はカートの内容を注文にコピーしてカートを空にする。
// 呼び出し側のTx内で使う（/orders と決済キャプチャの両方がここを通る）。
func (u *OrderUsecase) Finalize(ctx context.Context, r repo.TxRepos, userID int64, in PlaceOrderInput, pc PaymentConfirmation) (OrderOutput, error) {
	if err := in.validate(); err != nil {
		return OrderOutput{}, err
	}

	cartItems, err := r.CartItems().LockByUserID(ctx, userID)
	if err != nil {
		return OrderOutput{}, dbError(err)
	}
	if len(cartItems) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart is empty")
	}

	albumIDs := make([]int64, 0, len(cartItems))
	for _, ci := range cartItems {
		albumIDs = append(albumIDs, ci.AlbumID)
	}
	albums, err := r.Albums().FindByIDs(ctx, albumIDs)
	if err != nil {
		return OrderOutput{}, dbError(err)
	}
	titles := make(map[int64]string, len(albums))
	for _, a := range albums {
		titles[a.ID] = a.Title
	}

	now := u.clock.Now()
	var subtotal, shippingTotal int64
	maxDays := 0
	items := make([]model.OrderItem, 0, len(cartItems))

	for _, ci := range cartItems {
		subtotal += ci.UnitPrice * int64(ci.Quantity)
		shippingTotal += ci.ShippingPrice

		//スナップショット
		it := model.OrderItem{
			AlbumID:        ci.AlbumID,
			AlbumTitle:     titles[ci.AlbumID],
			BookFormat:     ci.BookFormat,
			FormatTitle:    ci.BookFormat,
			CoverType:      ci.CoverType,
			PageCount:      ci.PageCount,
			ShippingOption: ci.ShippingOption,
			ShippingTitle:  ci.ShippingOption,
			Quantity:       ci.Quantity,
			UnitPrice:      ci.UnitPrice,
			ShippingPrice:  ci.ShippingPrice,
			TotalPrice:     ci.TotalPrice,
			Customizations: ci.Customizations,
			CreatedAt:      now,
		}
		if f, ok := u.catalog.Format(ci.BookFormat); ok {
			it.FormatTitle = f.Title
			it.FormatDimensions = f.Dimensions
		}
		if s, ok := u.catalog.Shipping(ci.ShippingOption); ok {
			it.ShippingTitle = s.Title
			it.ShippingDescription = s.Description
			it.EstimatedDays = s.EstimatedDays
		}
		// 一番遅い配送に合わせる
		maxDays = max(maxDays, it.EstimatedDays)
		items = append(items, it)
	}

	order := model.Order{
		UserID:            userID,
		Status:            model.OrderStatusPending,
		Subtotal:          subtotal,
		ShippingTotal:     shippingTotal,
		Tax:               0,
		Total:             subtotal + shippingTotal,
		Currency:          u.currency,
		CustomerInfo:      in.CustomerInfo,
		ShippingAddress:   in.ShippingAddress,
		PaymentMethod:     strings.TrimSpace(in.PaymentMethod),
		PaymentStatus:     model.PaymentStatusPending,
		Notes:             strings.TrimSpace(in.Notes),
		EstimatedDelivery: now.AddDate(0, 0, maxDays),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if pc.Confirmed {
		order.Status = model.OrderStatusProcessing
		order.PaymentStatus = model.PaymentStatusPaid
		order.PaymentReference = pc.Reference
	}

	orderID, err := u.createWithUniqueNumber(ctx, r, &order)
	if err != nil {
		return OrderOutput{}, err
	}
	order.ID = orderID

	if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
		return OrderOutput{}, dbError(err)
	}
	// 同じTxでカートを空にする
	if _, err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
		return OrderOutput{}, dbError(err)
	}

	for i := range items {
		items[i].OrderID = orderID
	}
	return OrderOutput{Order: order, Items: items}, nil
}

// 注文番号が重複したら作り直す
func (u *OrderUsecase) createWithUniqueNumber(ctx context.Context, r repo.TxRepos, order *model.Order) (int64, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = u.numbers.Next(order.CreatedAt)
		id, err := r.Orders().Create(ctx, *order)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return 0, dbError(err)
		}
	}
	return 0, internalError("could not allocate order number",
		fmt.Errorf("%d duplicate order numbers in a row", maxOrderNumberAttempts))
}

// 新しい順
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return dbError(err)
		}
		outs, err = withItems(ctx, r, orders)
		return err
	})
	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return dbError(err)
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "order not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError(err)
		}
		out = OrderOutput{Order: o, Items: items}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func withItems(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, dbError(err)
		}
		outs = append(outs, OrderOutput{Order: o, Items: items})
	}
	return outs, nil
}
