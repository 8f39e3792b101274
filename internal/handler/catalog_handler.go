package handler

import (
	"net/http"

	"albummai/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /catalog の公開API（価格表と見積もり）
type CatalogHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCatalogHandler(uc *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

type QuoteRequest struct {
	BookFormat     string `json:"bookFormat"`
	CoverType      string `json:"coverType"`
	PageCount      *int   `json:"pageCount"`
	ShippingOption string `json:"shippingOption"`
	Quantity       *int   `json:"quantity"`
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalog", h.get)
	e.POST("/catalog/quote", h.quote)
}

func (h *CatalogHandler) get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Get())
}

func (h *CatalogHandler) quote(c echo.Context) error {
	var req QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	// 公開APIなので未ログインは0
	userID, _ := getUserIDFromContext(c)

	out, err := h.uc.Quote(c.Request().Context(), userID, usecase.QuoteInput{
		BookFormat:     req.BookFormat,
		CoverType:      req.CoverType,
		PageCount:      req.PageCount,
		ShippingOption: req.ShippingOption,
		Quantity:       req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
