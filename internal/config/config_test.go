package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"albummai/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "PLN", cfg.Currency)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "https://api-m.sandbox.paypal.com", cfg.PayPal.APIURL())
	assert.False(t, cfg.PayPal.Configured())
	assert.Contains(t, cfg.DSN(), "dbname=albummai")
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN())
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_InvalidCurrency(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CURRENCY", "ZZZZ")

	_, err := config.Load()
	assert.ErrorContains(t, err, "CURRENCY")
}

func TestLoad_CurrencyWithoutTwoDecimals(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CURRENCY", "JPY")
	_, err := config.Load()
	assert.ErrorContains(t, err, "decimal places")

	t.Setenv("CURRENCY", "EUR")
	_, err = config.Load()
	assert.NoError(t, err)
}

func TestLoad_InvalidPayPalEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYPAL_ENVIRONMENT", "staging")

	_, err := config.Load()
	assert.ErrorContains(t, err, "PAYPAL_ENVIRONMENT")
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAYPAL_CLIENT_ID=id\nPAYPAL_CLIENT_SECRET=sec\nPAYPAL_ENVIRONMENT=live\n"), 0o600))

	t.Setenv("JWT_SECRET", "secret")
	// godotenvは既存の環境変数を上書きしないので、空にしてから読む
	for _, k := range []string{"PAYPAL_CLIENT_ID", "PAYPAL_CLIENT_SECRET", "PAYPAL_ENVIRONMENT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.PayPal.Configured())
	assert.Equal(t, "https://api-m.paypal.com", cfg.PayPal.APIURL())
}
