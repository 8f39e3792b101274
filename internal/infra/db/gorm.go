package db

import (
	"fmt"
	"time"

	"albummai/internal/domain/model"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), Options())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return gdb, nil
}

// Options はドライバ共通の設定（一意制約違反を gorm.ErrDuplicatedKey に変換する）
func Options() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// Models はマイグレーション対象
func Models() []any {
	return []any{
		&model.Album{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.CheckoutAttempt{},
		&model.AuditLog{},
	}
}

func Migrate(gdb *gorm.DB, log *zap.Logger) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("database migrated", zap.Int("models", len(Models())))
	return nil
}
