package handler

import (
	"encoding/json"
	"net/http"

	"albummai/internal/config"
	"albummai/internal/middleware"
	"albummai/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /paypal（決済の作成とキャプチャ）
type PayPalHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewPayPalHandler(uc *usecase.CheckoutUsecase) *PayPalHandler {
	return &PayPalHandler{uc: uc}
}

// amountはクライアントが表示している合計（"524.00" か 524）
// itemsは受け取るが使わない（金額はカートから計算する）
type CreatePayPalOrderRequest struct {
	Currency string           `json:"currency"`
	Amount   *decimal.Decimal `json:"amount"`
	Items    json.RawMessage  `json:"items"`
}

type CapturePayPalOrderRequest struct {
	OrderID   string              `json:"orderId"`
	OrderData *OrderCreateRequest `json:"orderData"`
}

func (h *PayPalHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/paypal")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/create-order", h.createOrder)
	g.POST("/capture-order", h.captureOrder)
}

func (h *PayPalHandler) createOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreatePayPalOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateCheckout(c.Request().Context(), userID, usecase.CreateCheckoutInput{
		Currency: req.Currency,
		Amount:   req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PayPalHandler) captureOrder(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CapturePayPalOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in := usecase.CaptureCheckoutInput{OrderID: req.OrderID}
	if req.OrderData != nil {
		data := req.OrderData.toInput()
		in.OrderData = &data
	}

	out, err := h.uc.CaptureCheckout(c.Request().Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
