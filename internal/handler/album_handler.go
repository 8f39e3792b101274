package handler

import (
	"net/http"
	"strconv"

	"albummai/internal/config"
	"albummai/internal/middleware"
	"albummai/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /albums（ログインユーザー自身のアルバム）
type AlbumHandler struct {
	uc *usecase.AlbumUsecase
}

func NewAlbumHandler(uc *usecase.AlbumUsecase) *AlbumHandler {
	return &AlbumHandler{uc: uc}
}

type AlbumCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *AlbumHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/albums")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.detail)
}

func (h *AlbumHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AlbumHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AlbumCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID, usecase.CreateAlbumInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AlbumHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	albumID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Get(c.Request().Context(), userID, albumID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
