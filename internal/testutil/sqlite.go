// Package testutil はテスト用の共通部品
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"albummai/internal/infra/db"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLite はテストごとに独立したインメモリDBを作り、マイグレーション済みで返す。
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	gdb, err := gorm.Open(sqlite.Open(dsn), db.Options())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// インメモリDBは接続ごとに別物になるので1本に絞る
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb, zap.NewNop()))
	return gdb
}
