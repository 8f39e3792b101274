package server

import (
	"context"

	"albummai/internal/config"
	"albummai/internal/domain/catalog"
	"albummai/internal/handler"
	infrarepo "albummai/internal/infra/repository"
	"albummai/internal/usecase"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps はhandlerを組み立てるための外部部品
type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Log     *zap.Logger

	// nilならPayPal未設定（決済APIは500を返す）
	Gateway usecase.PaymentGateway
	Promo   usecase.PromotionPolicy
	Numbers usecase.OrderNumberGenerator
}

// BuildHandlers はRepository -> Usecase -> Handler の順にDIする
func BuildHandlers(d Deps) Handlers {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Promo == nil {
		d.Promo = usecase.NoPromotion{}
	}
	if d.Numbers == nil {
		d.Numbers = usecase.NewULIDOrderNumbers(nil)
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	//Repository（GORM実装）
	albumRepo := infrarepo.NewAlbumGormRepository(d.DB)
	cartRepo := infrarepo.NewCartItemGormRepository(d.DB)
	attemptRepo := infrarepo.NewCheckoutAttemptGormRepository(d.DB)
	txm := infrarepo.NewTxManagerGorm(d.DB)

	//Usecase
	currency := d.Config.Currency
	catalogUC := usecase.NewCatalogUsecase(d.Catalog, d.Promo, currency)
	albumUC := usecase.NewAlbumUsecase(albumRepo)
	cartUC := usecase.NewCartUsecase(txm, cartRepo, albumRepo, d.Catalog, d.Promo)
	orderUC := usecase.NewOrderUsecase(txm, d.Catalog, d.Numbers, currency)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm)
	checkoutUC := usecase.NewCheckoutUsecase(txm, cartRepo, attemptRepo, orderUC, d.Gateway, currency, d.Log.Named("checkout"))

	return Handlers{
		Health:     handler.NewHealthHandler(pinger(d.DB)),
		Catalog:    handler.NewCatalogHandler(catalogUC),
		Album:      handler.NewAlbumHandler(albumUC),
		Cart:       handler.NewCartHandler(cartUC),
		Order:      handler.NewOrderHandler(orderUC),
		AdminOrder: handler.NewAdminOrderHandler(adminOrderUC),
		PayPal:     handler.NewPayPalHandler(checkoutUC),
	}
}

func pinger(gdb *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
