package returns

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// Test helpers
func deliveredCustomerOrder(t *testing.T) (*order.Order, uuid.UUID) {
	o, err := order.NewOrder(order.KindCustomerOrder, "CO-2026-00001", uuid.New(), "Midtown Pharmacy", uuid.New())
	require.NoError(t, err)

	productID := uuid.New()
	_, err = o.AddItem(productID, "Amoxicillin 500mg",
		decimal.NewFromInt(10), decimal.NewFromInt(8), decimal.NewFromInt(20), decimal.Zero)
	require.NoError(t, err)

	for _, target := range []order.State{order.StatePendingApproval, order.StateApproved, order.StateConfirmed, order.StatePacked, order.StateShipped, order.StateDelivered} {
		_, err = o.ApplyTransition(target, order.TransitionMetadata{Actor: "tester", TrackingNumber: "TRK-1"})
		require.NoError(t, err)
	}

	return o, productID
}

func requestedReturn(t *testing.T) *Return {
	o, productID := deliveredCustomerOrder(t)
	r, err := NewReturn(o, productID, decimal.NewFromInt(4), "damaged in transit")
	require.NoError(t, err)
	return r
}

func approvedReturn(t *testing.T) *Return {
	r := requestedReturn(t)
	require.NoError(t, r.Approve("supervisor"))
	return r
}

func assertCode(t *testing.T, err error, code string) {
	require.Error(t, err)
	de, ok := err.(*shared.DomainError)
	require.True(t, ok, "expected a domain error, got %T", err)
	assert.Equal(t, code, de.Code)
}

// ============================================
// Status Tests
// ============================================

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		{StatusRequested, StatusApproved, true},
		{StatusRequested, StatusRejected, true},
		{StatusRequested, StatusProcessed, false},
		{StatusRequested, StatusCompleted, false},
		{StatusApproved, StatusProcessed, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusCompleted, false},
		{StatusProcessed, StatusCompleted, true},
		{StatusProcessed, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
		{StatusCompleted, StatusRequested, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

// ============================================
// NewReturn Tests
// ============================================

func TestNewReturn(t *testing.T) {
	t.Run("creates return for a delivered customer order", func(t *testing.T) {
		o, productID := deliveredCustomerOrder(t)

		r, err := NewReturn(o, productID, decimal.NewFromInt(4), "damaged in transit")
		require.NoError(t, err)

		assert.Equal(t, o.ID, r.OrderID)
		assert.Equal(t, o.OrderNumber, r.OrderNumber)
		assert.Equal(t, StatusRequested, r.Status)
		// net unit price 8 - 20/10 = 6, times 4 units
		assert.True(t, r.RefundAmount.Equal(decimal.NewFromInt(24)), "refund %s", r.RefundAmount)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventReturnRequested, events[0].EventType())
	})

	t.Run("allowed after the order moved past delivered", func(t *testing.T) {
		o, productID := deliveredCustomerOrder(t)
		_, err := o.ApplyTransition(order.StateInvoiced, order.TransitionMetadata{Actor: "tester", InvoiceNumber: "INV-1"})
		require.NoError(t, err)

		_, err = NewReturn(o, productID, decimal.NewFromInt(2), "expired on arrival")
		assert.NoError(t, err)
	})

	t.Run("rejects purchase orders", func(t *testing.T) {
		o, err := order.NewOrder(order.KindPurchaseOrder, "PO-2026-00001", uuid.New(), "Acme Pharma", uuid.New())
		require.NoError(t, err)

		_, err = NewReturn(o, uuid.New(), decimal.NewFromInt(1), "wrong item")
		assertCode(t, err, "INVALID_ORDER")
	})

	t.Run("rejects undelivered orders", func(t *testing.T) {
		o, err := order.NewOrder(order.KindCustomerOrder, "CO-2026-00002", uuid.New(), "Midtown Pharmacy", uuid.New())
		require.NoError(t, err)
		productID := uuid.New()
		_, err = o.AddItem(productID, "Aspirin", decimal.NewFromInt(5), decimal.NewFromInt(2), decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		_, err = NewReturn(o, productID, decimal.NewFromInt(1), "wrong item")
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects quantity above the ordered quantity", func(t *testing.T) {
		o, productID := deliveredCustomerOrder(t)

		_, err := NewReturn(o, productID, decimal.NewFromInt(11), "damaged")
		assertCode(t, err, "QUANTITY_EXCEEDED")
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		o, _ := deliveredCustomerOrder(t)

		_, err := NewReturn(o, uuid.New(), decimal.NewFromInt(1), "damaged")
		assertCode(t, err, "ITEM_NOT_FOUND")
	})

	t.Run("requires a reason", func(t *testing.T) {
		o, productID := deliveredCustomerOrder(t)

		_, err := NewReturn(o, productID, decimal.NewFromInt(1), "")
		assertCode(t, err, "INVALID_REASON")
	})
}

// ============================================
// Lifecycle Tests
// ============================================

func TestReturn_Approve(t *testing.T) {
	t.Run("approves a requested return", func(t *testing.T) {
		r := requestedReturn(t)
		r.ClearDomainEvents()

		require.NoError(t, r.Approve("supervisor"))
		assert.Equal(t, StatusApproved, r.Status)
		assert.Equal(t, "supervisor", r.ApprovedBy)
		require.NotNil(t, r.ApprovedAt)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventReturnApproved, events[0].EventType())
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		r := approvedReturn(t)
		assertCode(t, r.Approve("supervisor"), "INVALID_STATE")
	})

	t.Run("requires an approver", func(t *testing.T) {
		r := requestedReturn(t)
		assertCode(t, r.Approve(""), "INVALID_APPROVER")
	})
}

func TestReturn_Reject(t *testing.T) {
	t.Run("rejects a requested return", func(t *testing.T) {
		r := requestedReturn(t)

		require.NoError(t, r.Reject("supervisor", "outside the return window"))
		assert.Equal(t, StatusRejected, r.Status)
		assert.Equal(t, "outside the return window", r.RejectionReason)
		assert.True(t, r.IsTerminal())
		assert.False(t, r.CountsAgainstBalance())
	})

	t.Run("cannot reject an approved return", func(t *testing.T) {
		r := approvedReturn(t)
		assertCode(t, r.Reject("supervisor", "changed my mind"), "INVALID_STATE")
	})
}

func TestReturn_ProcessAndComplete(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		r := approvedReturn(t)

		require.NoError(t, r.MarkProcessed())
		assert.Equal(t, StatusProcessed, r.Status)

		require.NoError(t, r.Complete())
		assert.Equal(t, StatusCompleted, r.Status)
		assert.True(t, r.IsTerminal())
		assert.True(t, r.CountsAgainstBalance())
	})

	t.Run("cannot process a requested return", func(t *testing.T) {
		r := requestedReturn(t)
		assertCode(t, r.MarkProcessed(), "INVALID_STATE")
	})

	t.Run("cannot complete before processing", func(t *testing.T) {
		r := approvedReturn(t)
		assertCode(t, r.Complete(), "INVALID_STATE")
	})
}
