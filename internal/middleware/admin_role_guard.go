package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminRoleGuard は AuthJWT の後ろに置く。ADMIN以外は403
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUserID(c); !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			role, ok := CurrentRole(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !role.IsAdmin() {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
			return next(c)
		}
	}
}
