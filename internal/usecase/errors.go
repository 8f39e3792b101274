package usecase

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"albummai/internal/domain/catalog"
)

// HTTPError はhandlerがそのままステータスに変換するエラー
// Err は500のときの原因（ログ用）、Stack はエラーを作った時点のスタック
type HTTPError struct {
	Status  int
	Message string
	Err     error
	Stack   []byte
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var errPayPalNotConfigured = errors.New("PAYPAL_CLIENT_ID / PAYPAL_CLIENT_SECRET not set")

// DB等の想定外エラー
func internalError(message string, err error) error {
	return &HTTPError{Status: http.StatusInternalServerError, Message: message, Err: err, Stack: debug.Stack()}
}

func dbError(err error) error {
	return internalError("db error", err)
}

// 価格計算のエラーをAPIのエラーにする
func pricingError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrUnknownFormat), errors.Is(err, catalog.ErrUnsupportedCover):
		return NewHTTPError(http.StatusBadRequest, "invalid book configuration")
	case errors.Is(err, catalog.ErrUnknownShippingOption):
		return NewHTTPError(http.StatusNotFound, "shipping option not found")
	default:
		return internalError("pricing error", err)
	}
}
