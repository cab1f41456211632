package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pharmadist/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panicky  bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panicky {
		panic("handler blew up")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "order", uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers to handlers of the event type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		shipped := &recordingHandler{types: []string{"order.shipped"}}
		cancelled := &recordingHandler{types: []string{"order.cancelled"}}
		bus.Subscribe(shipped)
		bus.Subscribe(cancelled)

		err := bus.Publish(context.Background(), newTestEvent("order.shipped"))
		require.NoError(t, err)

		require.Len(t, shipped.received, 1)
		assert.Equal(t, "order.shipped", shipped.received[0].EventType())
		assert.Empty(t, cancelled.received)
	})

	t.Run("delivers multiple events in publish order", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"order.state_changed"}}
		bus.Subscribe(handler)

		first := newTestEvent("order.state_changed")
		second := newTestEvent("order.state_changed")
		err := bus.Publish(context.Background(), first, second)
		require.NoError(t, err)

		require.Len(t, handler.received, 2)
		assert.Equal(t, first.EventID(), handler.received[0].EventID())
		assert.Equal(t, second.EventID(), handler.received[1].EventID())
	})

	t.Run("handler with no types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.shipped")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("return.approved")))

		assert.Len(t, audit.received, 2)
	})

	t.Run("explicit types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"order.shipped"}}
		bus.Subscribe(handler, "order.invoiced")

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.shipped")))
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.invoiced")))

		require.Len(t, handler.received, 1)
		assert.Equal(t, "order.invoiced", handler.received[0].EventType())
	})

	t.Run("failing handler does not block the others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		broken := &recordingHandler{types: []string{"order.shipped"}, err: errors.New("downstream unavailable")}
		healthy := &recordingHandler{types: []string{"order.shipped"}}
		bus.Subscribe(broken)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newTestEvent("order.shipped"))
		require.NoError(t, err)

		assert.Len(t, healthy.received, 1)
	})

	t.Run("panicking handler is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicker := &recordingHandler{types: []string{"order.shipped"}, panicky: true}
		healthy := &recordingHandler{types: []string{"order.shipped"}}
		bus.Subscribe(panicker)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(context.Background(), newTestEvent("order.shipped"))
		})
		assert.Len(t, healthy.received, 1)
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	t.Run("removes a typed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"order.shipped"}}
		bus.Subscribe(handler)

		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.shipped")))
		assert.Empty(t, handler.received)
	})

	t.Run("removes a catch-all handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		bus.Unsubscribe(audit)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.shipped")))
		assert.Empty(t, audit.received)
	})
}
