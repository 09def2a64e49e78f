package subscription

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streambox-service/internal/domain/order"
	domain "streambox-service/internal/domain/subscription"
	"streambox-service/internal/pkg/clock"
	xerrors "streambox-service/internal/pkg/errors"
	"streambox-service/internal/repository/postgres"
	service "streambox-service/internal/service/order"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Only the subscription store is exercised through this handler; the other
// stores are inert placeholders the service constructor needs.
type stubOrderStore struct{}

func (stubOrderStore) CreateWithTx(context.Context, pgx.Tx, *order.Order) error { return nil }
func (stubOrderStore) FindByID(context.Context, string) (*order.Order, error)  { return nil, nil }
func (stubOrderStore) FindByIDForUpdateWithTx(context.Context, pgx.Tx, string) (*order.Order, error) {
	return nil, nil
}
func (stubOrderStore) FindByUser(context.Context, string) ([]order.Order, error) { return nil, nil }
func (stubOrderStore) UpdateStatusWithTx(context.Context, pgx.Tx, string, order.OrderStatus, time.Time) error {
	return nil
}

type stubCancellationStore struct{}

func (stubCancellationStore) CreateWithTx(context.Context, pgx.Tx, *order.OrderCancellation) error {
	return nil
}
func (stubCancellationStore) FindByOrder(context.Context, string) (*order.OrderCancellation, error) {
	return nil, nil
}

type mockSubscriptionStore struct{ mock.Mock }

func (m *mockSubscriptionStore) CreateWithTx(ctx context.Context, tx pgx.Tx, sub *domain.Subscription) error {
	return m.Called(ctx, tx, sub).Error(0)
}

func (m *mockSubscriptionStore) FindByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]domain.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubscriptionStore) FindActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, userID)
	if s := args.Get(0); s != nil {
		return s.([]domain.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubscriptionStore) FindByOrderWithTx(ctx context.Context, tx pgx.Tx, orderID string) ([]domain.Subscription, error) {
	args := m.Called(ctx, tx, orderID)
	if s := args.Get(0); s != nil {
		return s.([]domain.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSubscriptionStore) CancelWithTx(ctx context.Context, tx pgx.Tx, id string, cancelledAt, effectiveEndDate, updatedAt time.Time) error {
	return m.Called(ctx, tx, id, cancelledAt, effectiveEndDate, updatedAt).Error(0)
}

func newRouter(t *testing.T, subs *mockSubscriptionStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc := service.NewOrderService(
		stubOrderStore{}, subs, stubCancellationStore{},
		postgres.NewDB(pool), clock.NewFixed(now), zap.NewNop(),
	)
	h := NewSubscriptionHandler(svc, zap.NewNop())

	r := gin.New()
	r.GET("/users/:user_id/subscriptions", h.GetUserSubscriptions)
	r.GET("/users/:user_id/subscription-status", h.GetUserSubscriptionStatus)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetUserSubscriptions(t *testing.T) {
	subs := &mockSubscriptionStore{}
	r := newRouter(t, subs)
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	subs.On("FindByUser", mock.Anything, "u1").Return([]domain.Subscription{{
		ID:        "sub-1",
		OrderID:   "ord-1",
		UserID:    "u1",
		ProductID: "monthly",
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Status:    domain.StatusActive,
		CreatedAt: start,
		UpdatedAt: start,
	}}, nil)

	w := get(r, "/users/u1/subscriptions")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "sub-1", first["id"])
	assert.Equal(t, "active", first["status"])
	assert.NotContains(t, first, "cancelled_at")
}

func TestGetUserSubscriptionStatusSubscribed(t *testing.T) {
	subs := &mockSubscriptionStore{}
	r := newRouter(t, subs)
	start := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	subs.On("FindActiveByUser", mock.Anything, "u1").Return([]domain.Subscription{{
		ID:        "sub-1",
		UserID:    "u1",
		StartDate: start,
		EndDate:   start.AddDate(0, 1, 0),
		Status:    domain.StatusActive,
	}}, nil)

	w := get(r, "/users/u1/subscription-status")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["is_subscribed"])
	assert.Equal(t, float64(1), data["subscription_count"])
}

func TestGetUserSubscriptionStatusNotSubscribed(t *testing.T) {
	subs := &mockSubscriptionStore{}
	r := newRouter(t, subs)

	subs.On("FindActiveByUser", mock.Anything, "u2").Return([]domain.Subscription{}, nil)

	w := get(r, "/users/u2/subscription-status")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["is_subscribed"])
	assert.Equal(t, float64(0), data["subscription_count"])
}

func TestGetUserSubscriptionsStorageErrorReturns500(t *testing.T) {
	subs := &mockSubscriptionStore{}
	r := newRouter(t, subs)

	subs.On("FindByUser", mock.Anything, "u1").
		Return(nil, xerrors.NewStorageError("list subscriptions", assert.AnError))

	w := get(r, "/users/u1/subscriptions")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}
