package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"albummai/internal/domain/model"
	"albummai/internal/infra/paypal"
	repo "albummai/internal/repository"
	"albummai/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	albums           repo.AlbumRepository
	cartItems        repo.CartItemRepository
	orders           repo.OrderRepository
	orderItems       repo.OrderItemRepository
	auditLogs        repo.AuditLogRepository
	checkoutAttempts repo.CheckoutAttemptRepository
}

func (r *TxReposMock) Albums() repo.AlbumRepository         { return r.albums }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }
func (r *TxReposMock) CheckoutAttempts() repo.CheckoutAttemptRepository {
	return r.checkoutAttempts
}

// =====================
// Repository mocks
// =====================

type AlbumRepoMock struct{ mock.Mock }

func (m *AlbumRepoMock) Create(ctx context.Context, album model.Album) (model.Album, error) {
	args := m.Called(ctx, album)
	a, _ := args.Get(0).(model.Album)
	return a, args.Error(1)
}

func (m *AlbumRepoMock) FindByID(ctx context.Context, albumID int64) (model.Album, error) {
	args := m.Called(ctx, albumID)
	a, _ := args.Get(0).(model.Album)
	return a, args.Error(1)
}

func (m *AlbumRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Album, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).([]model.Album)
	return a, args.Error(1)
}

func (m *AlbumRepoMock) FindByIDs(ctx context.Context, albumIDs []int64) ([]model.Album, error) {
	args := m.Called(ctx, albumIDs)
	a, _ := args.Get(0).([]model.Album)
	return a, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) LockByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, userID int64, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, userID, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) FindByKey(ctx context.Context, key model.CartItemKey) (model.CartItem, error) {
	args := m.Called(ctx, key)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) UpsertAdd(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	args := m.Called(ctx, item)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Update(ctx context.Context, item model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, userID int64, cartItemID int64) error {
	args := m.Called(ctx, userID, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateFulfillment(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type CheckoutAttemptRepoMock struct{ mock.Mock }

func (m *CheckoutAttemptRepoMock) Create(ctx context.Context, attempt model.CheckoutAttempt) (model.CheckoutAttempt, error) {
	args := m.Called(ctx, attempt)
	a, _ := args.Get(0).(model.CheckoutAttempt)
	return a, args.Error(1)
}

func (m *CheckoutAttemptRepoMock) FindByProviderOrderID(ctx context.Context, providerOrderID string) (model.CheckoutAttempt, error) {
	args := m.Called(ctx, providerOrderID)
	a, _ := args.Get(0).(model.CheckoutAttempt)
	return a, args.Error(1)
}

func (m *CheckoutAttemptRepoMock) TransitionStatus(ctx context.Context, attemptID int64, from, to model.CheckoutStatus) (bool, error) {
	args := m.Called(ctx, attemptID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *CheckoutAttemptRepoMock) MarkCaptured(ctx context.Context, attemptID int64, orderID *int64, payload string) error {
	args := m.Called(ctx, attemptID, orderID, payload)
	return args.Error(0)
}

// =====================
// PaymentGateway mock
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateOrder(ctx context.Context, requestID string, in paypal.CreateOrderInput) (paypal.Order, error) {
	args := m.Called(ctx, requestID, in)
	o, _ := args.Get(0).(paypal.Order)
	return o, args.Error(1)
}

func (m *GatewayMock) CaptureOrder(ctx context.Context, requestID string, orderID string) (paypal.Capture, error) {
	args := m.Called(ctx, requestID, orderID)
	c, _ := args.Get(0).(paypal.Capture)
	return c, args.Error(1)
}

// =====================
// helpers
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fixedIDs struct{ id string }

func (g fixedIDs) NewString() string { return g.id }

// 順番に番号を返す
type seqNumbers struct {
	numbers []string
	i       int
}

func (s *seqNumbers) Next(time.Time) string {
	n := s.numbers[s.i%len(s.numbers)]
	s.i++
	return n
}

var _ usecase.OrderNumberGenerator = (*seqNumbers)(nil)

func assertHTTPError(t *testing.T, err error, status int, wantSubstr string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "err=%v", err) {
		assert.Equal(t, status, he.Status)
		assert.True(t, strings.Contains(he.Message, wantSubstr), "msg=%q want contains %q", he.Message, wantSubstr)
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }
