package server

import (
	"albummai/internal/config"

	"github.com/labstack/echo/v4"
)

// nilのhandlerは登録しない
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	if h.Health != nil {
		h.Health.RegisterRoutes(e)
	}
	if h.Catalog != nil {
		h.Catalog.RegisterRoutes(e)
	}
	if h.Album != nil {
		h.Album.RegisterRoutes(e, cfg)
	}
	if h.Cart != nil {
		h.Cart.RegisterRoutes(e, cfg)
	}
	if h.Order != nil {
		h.Order.RegisterRoutes(e, cfg)
	}
	if h.AdminOrder != nil {
		h.AdminOrder.RegisterRoutes(e, cfg)
	}
	if h.PayPal != nil {
		h.PayPal.RegisterRoutes(e, cfg)
	}
}
