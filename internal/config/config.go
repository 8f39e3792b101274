package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"albummai/internal/domain/catalog"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

// Configはアプリ全体の設定
type Config struct {
	Environment string `env:"GO_ENV" envDefault:"development"` // development/production
	Log         Log
	HTTP        HTTPServer

	DatabaseURL string   `env:"DATABASE_URL"` // あればPOSTGRES_*より優先
	Postgres    Postgres `envPrefix:"POSTGRES_"`

	JWTSecret string `env:"JWT_SECRET"`
	Currency  string `env:"CURRENCY" envDefault:"PLN"`
	BaseURL   string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// 決済キーは起動時には必須にしない（リクエスト時に確認）
	PayPal PayPal `envPrefix:"PAYPAL_"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"8080"`
}

type Postgres struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	DB       string `env:"DB" envDefault:"albummai"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type PayPal struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Environment  string `env:"ENVIRONMENT" envDefault:"sandbox"` // sandbox/live
	BaseAPIURL   string `env:"BASE_API_URL"`                     // テスト用の上書き
}

const (
	paypalSandboxURL = "https://api-m.sandbox.paypal.com"
	paypalLiveURL    = "https://api-m.paypal.com"
)

// Loadは.env（あれば）と環境変数から読む
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validateは起動に必要な値だけチェックする
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		if c.Postgres.Host == "" {
			return errors.New("POSTGRES_HOST is required")
		}
		if c.Postgres.DB == "" {
			return errors.New("POSTGRES_DB is required")
		}
	}
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return fmt.Errorf("CURRENCY must be an ISO 4217 code: %w", err)
	}
	// 価格表はグロシュ（1/100）で持っているので小数2桁の通貨だけ
	if scale, _ := currency.Standard.Rounding(unit); scale != catalog.MinorDigits {
		return fmt.Errorf("CURRENCY must use %d decimal places, %s uses %d", catalog.MinorDigits, unit, scale)
	}
	switch c.PayPal.Environment {
	case "sandbox", "live":
	default:
		return fmt.Errorf("PAYPAL_ENVIRONMENT must be sandbox or live, got %q", c.PayPal.Environment)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Addr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}

// DSNはgorm/postgres用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	p := c.Postgres
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode,
	)
}

func (p PayPal) Configured() bool {
	return strings.TrimSpace(p.ClientID) != "" && strings.TrimSpace(p.ClientSecret) != ""
}

func (p PayPal) APIURL() string {
	if p.BaseAPIURL != "" {
		return strings.TrimRight(p.BaseAPIURL, "/")
	}
	if p.Environment == "live" {
		return paypalLiveURL
	}
	return paypalSandboxURL
}
