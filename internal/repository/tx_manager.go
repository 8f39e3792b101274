package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Albums() AlbumRepository
	CartItems() CartItemRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	AuditLogs() AuditLogRepository
	CheckoutAttempts() CheckoutAttemptRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
