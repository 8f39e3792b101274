package handler

import (
	"errors"
	"net/http"

	"albummai/internal/middleware"
	"albummai/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Stack  string `json:"stack,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// writeError は4xxをその場で返し、5xxはErrorHandlerに回す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok && he.Status < http.StatusInternalServerError {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	return err
}

// ErrorHandler はechoの共通エラーハンドラ
// 5xxはログに残し、本番以外では原因と（あれば）エラー発生時のスタックも返す。
func ErrorHandler(log *zap.Logger, exposeStack bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := ErrorResponse{Error: "internal error"}

		var stack []byte
		var ee *echo.HTTPError
		if he, ok := usecase.AsHTTPError(err); ok {
			status = he.Status
			body.Error = he.Message
			stack = he.Stack
		} else if errors.As(err, &ee) {
			status = ee.Code
			if msg, ok := ee.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(ee.Code)
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error("request error",
				zap.Int("status", status),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			if exposeStack {
				body.Detail = err.Error()
				body.Stack = string(stack)
			}
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(werr))
		}
	}
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	return middleware.CurrentUserID(c)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}
