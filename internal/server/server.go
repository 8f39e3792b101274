package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"albummai/internal/config"
	"albummai/internal/handler"
	"albummai/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handlers はルートに載せるhandlerの一覧
type Handlers struct {
	Health     *handler.HealthHandler
	Catalog    *handler.CatalogHandler
	Album      *handler.AlbumHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	AdminOrder *handler.AdminOrderHandler
	PayPal     *handler.PayPalHandler
}

type Server struct {
	echo *echo.Echo
	addr string
	log  *zap.Logger
}

func New(cfg config.Config, log *zap.Logger, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log, !cfg.IsProduction())

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, cfg, h)

	return &Server{echo: e, addr: cfg.Addr(), log: log}
}

// Echo はテストでServeHTTPするため
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	s.log.Info("http server listening", zap.String("addr", s.addr))
	srv := &http.Server{
		Addr:              s.addr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
