package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"albummai/internal/config"
	"albummai/internal/domain/model"
	"albummai/internal/infra/paypal"
	"albummai/internal/server"
	"albummai/internal/testutil"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type ErrorResponse struct {
	Error string `json:"error"`
	Stack string `json:"stack"`
}

// PayPalのSandboxの代わり
type fakePayPal struct {
	orders        atomic.Int32
	captures      atomic.Int32
	captureStatus string
}

func (f *fakePayPal) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	mux.HandleFunc("POST /v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		n := f.orders.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"id":"PP-%d","status":"CREATED"}`, n)
	})
	mux.HandleFunc("POST /v2/checkout/orders/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		n := f.captures.Add(1)
		w.WriteHeader(http.StatusCreated)
		_, _ = fmt.Fprintf(w, `{"id":%q,"status":%q,"purchase_units":[{"payments":{"captures":[{"id":"CAP-%d"}]}}]}`,
			r.PathValue("id"), f.captureStatus, n)
	})
	return mux
}

type testEnv struct {
	e      *echo.Echo
	db     *gorm.DB
	paypal *fakePayPal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := testutil.NewSQLite(t)
	fake := &fakePayPal{captureStatus: paypal.CaptureStatusCompleted}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{Environment: "test", JWTSecret: testSecret, Currency: "PLN"}
	h := server.BuildHandlers(server.Deps{
		Config:  cfg,
		DB:      gdb,
		Log:     zap.NewNop(),
		Gateway: paypal.NewClient(srv.URL, "id", "secret", srv.Client()),
	})
	return &testEnv{
		e:      server.New(cfg, zap.NewNop(), h).Echo(),
		db:     gdb,
		paypal: fake,
	}
}

func token(t *testing.T, userID int64, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  9999999999,
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func (env *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) seedAlbum(t *testing.T, userID int64, title string) model.Album {
	t.Helper()
	a := model.Album{UserID: userID, Title: title}
	require.NoError(t, env.db.Create(&a).Error)
	return a
}

type cartItemJSON struct {
	ID             int64          `json:"id"`
	AlbumID        int64          `json:"albumId"`
	BookFormat     string         `json:"bookFormat"`
	CoverType      string         `json:"coverType"`
	PageCount      int            `json:"pageCount"`
	ShippingOption string         `json:"shippingOption"`
	Quantity       int            `json:"quantity"`
	UnitPrice      int64          `json:"unitPrice"`
	ShippingPrice  int64          `json:"shippingPrice"`
	TotalPrice     int64          `json:"totalPrice"`
	Customizations map[string]any `json:"customizations"`
	Format         *struct {
		Title string `json:"title"`
	} `json:"format"`
	Album *struct {
		Title string `json:"title"`
	} `json:"album"`
}

type cartJSON struct {
	Items       []cartItemJSON `json:"items"`
	TotalItems  int            `json:"totalItems"`
	TotalAmount int64          `json:"totalAmount"`
}

type orderJSON struct {
	ID               int64  `json:"id"`
	OrderNumber      string `json:"orderNumber"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"paymentStatus"`
	PaymentReference string `json:"paymentReference"`
	Subtotal         int64  `json:"subtotal"`
	ShippingTotal    int64  `json:"shippingTotal"`
	Total            int64  `json:"total"`
	TrackingNumber   string `json:"trackingNumber"`
	Items            []struct {
		AlbumTitle string `json:"albumTitle"`
		Quantity   int    `json:"quantity"`
	} `json:"items"`
}

func addToCart(albumID int64, format, cover, shipping string, qty int) map[string]any {
	return map[string]any{
		"albumId":        albumID,
		"bookFormat":     format,
		"coverType":      cover,
		"shippingOption": shipping,
		"quantity":       qty,
	}
}

func validOrderBody() map[string]any {
	return map[string]any{
		"customerInfo":    map[string]any{"name": "Anna Nowak", "email": "anna@example.pl"},
		"shippingAddress": map[string]any{"street": "Długa 1", "city": "Gdańsk", "postalCode": "80-001", "country": "PL"},
		"paymentMethod":   "paypal",
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
