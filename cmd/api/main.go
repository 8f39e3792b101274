package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"albummai/internal/config"
	"albummai/internal/domain/catalog"
	"albummai/internal/infra/db"
	"albummai/internal/infra/paypal"
	"albummai/internal/logging"
	"albummai/internal/server"
	"albummai/internal/usecase"

	"go.uber.org/zap"
)

func main() {
	// .envはあれば読む（本番は環境変数だけ）
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.Migrate(gormDB, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	//PayPalはキーがあるときだけ（ないと決済APIが500）
	var gateway usecase.PaymentGateway
	if cfg.PayPal.Configured() {
		gateway = paypal.NewClient(cfg.PayPal.APIURL(), cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, &http.Client{Timeout: 30 * time.Second})
		log.Info("paypal configured", zap.String("environment", cfg.PayPal.Environment))
	} else {
		log.Warn("paypal is not configured")
	}

	h := server.BuildHandlers(server.Deps{
		Config:  cfg,
		DB:      gormDB,
		Catalog: catalog.Default(),
		Log:     log,
		Gateway: gateway,
	})
	srv := server.New(cfg, log, h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("http server error", zap.Error(err))
		}
		return
	case sig := <-sigChan:
		log.Info("signal received, shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("http server shutdown error", zap.Error(err))
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server stopped")
}
