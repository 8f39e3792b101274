package handler

import (
	"net/http"
	"strconv"

	"albummai/internal/config"
	"albummai/internal/middleware"
	"albummai/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	AlbumID        int64          `json:"albumId"`
	BookFormat     string         `json:"bookFormat"`
	CoverType      string         `json:"coverType"`
	PageCount      *int           `json:"pageCount"`
	ShippingOption string         `json:"shippingOption"`
	Quantity       *int           `json:"quantity"`
	Customizations map[string]any `json:"customizations"`
}

// 送られたフィールドだけ更新する
type UpdateCartItemRequest struct {
	Quantity       *int           `json:"quantity"`
	BookFormat     *string        `json:"bookFormat"`
	CoverType      *string        `json:"coverType"`
	PageCount      *int           `json:"pageCount"`
	ShippingOption *string        `json:"shippingOption"`
	Customizations map[string]any `json:"customizations"`
}

// /cart, /cart/{id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("", h.addToCart)
	g.DELETE("", h.clearCart)
	g.POST("/clear", h.clearCart)
	g.PUT("/:id", h.updateItem)
	g.DELETE("/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, usecase.AddCartItemInput{
		AlbumID:        req.AlbumID,
		BookFormat:     req.BookFormat,
		CoverType:      req.CoverType,
		PageCount:      req.PageCount,
		ShippingOption: req.ShippingOption,
		Quantity:       req.Quantity,
		Customizations: req.Customizations,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), userID, itemID, usecase.UpdateCartItemInput{
		Quantity:       req.Quantity,
		BookFormat:     req.BookFormat,
		CoverType:      req.CoverType,
		PageCount:      req.PageCount,
		ShippingOption: req.ShippingOption,
		Customizations: req.Customizations,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.RemoveItem(c.Request().Context(), userID, itemID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.uc.ClearCart(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "cleared"})
}
