package middleware_test

import (
	"errors"
	"net/http"
	"testing"

	"albummai/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.Use(middleware.RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return c.NoContent(http.StatusNotFound) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	runRequest(t, e, "/ok", "")
	runRequest(t, e, "/missing", "")
	rec := runRequest(t, e, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["uri"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "request failed", entries[2].Message)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}
