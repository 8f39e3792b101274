package middleware

import (
	"albummai/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // model.Role
)

// CurrentUserID は AuthJWT が入れたユーザーID
func CurrentUserID(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func CurrentRole(c echo.Context) (model.Role, bool) {
	role, ok := c.Get(CtxUserRoleKey).(model.Role)
	if !ok || role == "" {
		return "", false
	}
	return role, true
}
