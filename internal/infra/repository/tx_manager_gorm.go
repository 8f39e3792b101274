package repository

import (
	"context"

	repo "albummai/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	albums           repo.AlbumRepository
	cartItems        repo.CartItemRepository
	orders           repo.OrderRepository
	orderItems       repo.OrderItemRepository
	auditLogs        repo.AuditLogRepository
	checkoutAttempts repo.CheckoutAttemptRepository
}

func (r *txReposGorm) Albums() repo.AlbumRepository         { return r.albums }
func (r *txReposGorm) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }
func (r *txReposGorm) CheckoutAttempts() repo.CheckoutAttemptRepository {
	return r.checkoutAttempts
}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		return fn(&txReposGorm{
			albums:           NewAlbumGormRepository(tx),
			cartItems:        NewCartItemGormRepository(tx),
			orders:           NewOrderGormRepository(tx),
			orderItems:       NewOrderItemGormRepository(tx),
			auditLogs:        NewAuditLogGormRepository(tx),
			checkoutAttempts: NewCheckoutAttemptGormRepository(tx),
		})
	})
}
