package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	orderapp "github.com/pharmadist/backend/internal/application/order"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/infrastructure/cache"
)

// MockOrderRepository implements order.Repository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, kind order.Kind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

var _ order.Repository = (*MockOrderRepository)(nil)

// MockStatusHistoryRepository implements order.StatusHistoryRepository for testing
type MockStatusHistoryRepository struct {
	mock.Mock
}

func (m *MockStatusHistoryRepository) Append(ctx context.Context, entry *order.StatusHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatusHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusHistoryEntry, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]order.StatusHistoryEntry), args.Error(1)
}

func (m *MockStatusHistoryRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

var _ order.StatusHistoryRepository = (*MockStatusHistoryRepository)(nil)

// Test helpers

func setupWebhookTestRouter(t *testing.T) (*gin.Engine, *MockOrderRepository, *MockStatusHistoryRepository) {
	gin.SetMode(gin.TestMode)

	mockOrderRepo := new(MockOrderRepository)
	mockHistoryRepo := new(MockStatusHistoryRepository)

	orderService := orderapp.NewOrderService(mockOrderRepo, mockHistoryRepo)
	scope := orderapp.NewNoOpTransactionScope(mockOrderRepo, mockHistoryRepo, nil, nil)
	lifecycleService := orderapp.NewLifecycleService(scope, nil, zap.NewNop(), noop.NewTracerProvider().Tracer("test"))

	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	handler := NewCarrierWebhookHandler(orderService, lifecycleService, store, shared.DefaultIdempotencyConfig(), zap.NewNop())

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api/v1"))

	return router, mockOrderRepo, mockHistoryRepo
}

func createShippedOrder(t *testing.T) *order.Order {
	o, err := order.NewOrder(order.KindCustomerOrder, "CO-2026-00042", uuid.New(), "Midtown Pharmacy", uuid.New())
	require.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Amoxicillin 500mg",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	for _, target := range []order.State{order.StatePendingApproval, order.StateApproved, order.StateConfirmed, order.StatePacked, order.StateShipped} {
		_, err = o.ApplyTransition(target, order.TransitionMetadata{Actor: "tester", TrackingNumber: "TRK-1"})
		require.NoError(t, err)
	}
	o.ClearDomainEvents()
	return o
}

func postCarrierEvent(router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/webhooks/carrier", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Tests

func TestCarrierWebhookHandler_HandleCarrierEvent(t *testing.T) {
	t.Run("marks the order delivered", func(t *testing.T) {
		router, mockOrderRepo, mockHistoryRepo := setupWebhookTestRouter(t)
		o := createShippedOrder(t)

		mockOrderRepo.On("FindByOrderNumber", mock.Anything, o.OrderNumber).Return(o, nil)
		mockOrderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
		mockOrderRepo.On("SaveWithLock", mock.Anything, o).Return(nil)
		mockHistoryRepo.On("Append", mock.Anything, mock.AnythingOfType("*order.StatusHistoryEntry")).Return(nil)

		w := postCarrierEvent(router, map[string]any{
			"event_id":        "evt-001",
			"event":           "delivered",
			"order_number":    o.OrderNumber,
			"tracking_number": "TRK-1",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, order.StateDelivered, o.State)
		mockOrderRepo.AssertExpectations(t)
		mockHistoryRepo.AssertExpectations(t)
	})

	t.Run("replayed event is acknowledged without a second transition", func(t *testing.T) {
		router, mockOrderRepo, mockHistoryRepo := setupWebhookTestRouter(t)
		o := createShippedOrder(t)

		mockOrderRepo.On("FindByOrderNumber", mock.Anything, o.OrderNumber).Return(o, nil).Once()
		mockOrderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil).Once()
		mockOrderRepo.On("SaveWithLock", mock.Anything, o).Return(nil).Once()
		mockHistoryRepo.On("Append", mock.Anything, mock.AnythingOfType("*order.StatusHistoryEntry")).Return(nil).Once()

		payload := map[string]any{
			"event_id":     "evt-replay",
			"event":        "delivered",
			"order_number": o.OrderNumber,
		}

		first := postCarrierEvent(router, payload)
		assert.Equal(t, http.StatusOK, first.Code)

		second := postCarrierEvent(router, payload)
		assert.Equal(t, http.StatusOK, second.Code)

		var response map[string]any
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &response))
		assert.Equal(t, "duplicate", response["status"])

		// the transition ran exactly once
		mockOrderRepo.AssertExpectations(t)
		mockHistoryRepo.AssertExpectations(t)
	})

	t.Run("unknown order number returns 404", func(t *testing.T) {
		router, mockOrderRepo, _ := setupWebhookTestRouter(t)

		mockOrderRepo.On("FindByOrderNumber", mock.Anything, "CO-1999-99999").Return(nil, shared.ErrNotFound)

		w := postCarrierEvent(router, map[string]any{
			"event_id":     "evt-404",
			"event":        "delivered",
			"order_number": "CO-1999-99999",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("order not yet shipped returns 422", func(t *testing.T) {
		router, mockOrderRepo, _ := setupWebhookTestRouter(t)
		o, err := order.NewOrder(order.KindCustomerOrder, "CO-2026-00050", uuid.New(), "Midtown Pharmacy", uuid.New())
		require.NoError(t, err)

		mockOrderRepo.On("FindByOrderNumber", mock.Anything, o.OrderNumber).Return(o, nil)
		mockOrderRepo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

		w := postCarrierEvent(router, map[string]any{
			"event_id":     "evt-422",
			"event":        "delivered",
			"order_number": o.OrderNumber,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, order.StateCreated, o.State)
	})

	t.Run("unsupported event kind returns 400", func(t *testing.T) {
		router, _, _ := setupWebhookTestRouter(t)

		w := postCarrierEvent(router, map[string]any{
			"event_id":     "evt-400",
			"event":        "out_for_delivery",
			"order_number": "CO-2026-00042",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing event id returns 400", func(t *testing.T) {
		router, _, _ := setupWebhookTestRouter(t)

		w := postCarrierEvent(router, map[string]any{
			"event":        "delivered",
			"order_number": "CO-2026-00042",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
