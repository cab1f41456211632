package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_IsValid(t *testing.T) {
	tests := []struct {
		kind    Kind
		isValid bool
	}{
		{KindPurchaseOrder, true},
		{KindCustomerOrder, true},
		{Kind("sales_order"), false},
		{Kind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.kind.IsValid())
		})
	}
}

func TestIsLegal(t *testing.T) {
	tests := []struct {
		kind  Kind
		from  State
		to    State
		legal bool
	}{
		// shared forward path
		{KindPurchaseOrder, StateCreated, StatePendingApproval, true},
		{KindPurchaseOrder, StatePendingApproval, StateApproved, true},
		{KindPurchaseOrder, StateApproved, StateConfirmed, true},
		{KindPurchaseOrder, StateConfirmed, StatePacked, true},
		{KindPurchaseOrder, StatePacked, StateShipped, true},
		{KindPurchaseOrder, StateShipped, StateDelivered, true},
		{KindPurchaseOrder, StateDelivered, StateInvoiced, true},
		{KindPurchaseOrder, StateInvoiced, StatePaid, true},
		// no skipping
		{KindPurchaseOrder, StateCreated, StateApproved, false},
		{KindPurchaseOrder, StateCreated, StateShipped, false},
		{KindPurchaseOrder, StateApproved, StatePacked, false},
		{KindPurchaseOrder, StateConfirmed, StateShipped, false},
		// no going backwards
		{KindPurchaseOrder, StateApproved, StatePendingApproval, false},
		{KindPurchaseOrder, StateShipped, StatePacked, false},
		// cancellation is reachable from every non-terminal state
		{KindPurchaseOrder, StateCreated, StateCancelled, true},
		{KindPurchaseOrder, StatePendingApproval, StateCancelled, true},
		{KindPurchaseOrder, StateConfirmed, StateCancelled, true},
		{KindPurchaseOrder, StateShipped, StateCancelled, true},
		{KindPurchaseOrder, StateInvoiced, StateCancelled, true},
		// terminal states have no exits
		{KindPurchaseOrder, StatePaid, StateCancelled, false},
		{KindPurchaseOrder, StateCancelled, StateCreated, false},
		{KindPurchaseOrder, StateCancelled, StatePendingApproval, false},
		// returned is customer-order only
		{KindPurchaseOrder, StateDelivered, StateReturned, false},
		{KindCustomerOrder, StateDelivered, StateReturned, true},
		{KindCustomerOrder, StateShipped, StateReturned, false},
		{KindCustomerOrder, StateReturned, StateDelivered, false},
		// unknown kind has no table
		{Kind("unknown"), StateCreated, StatePendingApproval, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.legal, IsLegal(tt.kind, tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	for _, kind := range []Kind{KindPurchaseOrder, KindCustomerOrder} {
		assert.True(t, IsTerminal(kind, StatePaid), "%s paid", kind)
		assert.True(t, IsTerminal(kind, StateCancelled), "%s cancelled", kind)
		assert.False(t, IsTerminal(kind, StateCreated), "%s created", kind)
		assert.False(t, IsTerminal(kind, StateInvoiced), "%s invoiced", kind)
	}
	assert.True(t, IsTerminal(KindCustomerOrder, StateReturned))
	assert.False(t, IsTerminal(KindPurchaseOrder, StateReturned), "returned is not a purchase order state")
}

// The table must never loop back: no state lists itself as a successor and
// created is never a target.
func TestTransitionTable_NoSelfLoopsNoReentry(t *testing.T) {
	for _, kind := range []Kind{KindPurchaseOrder, KindCustomerOrder} {
		for _, state := range States(kind) {
			for _, next := range NextStates(kind, state) {
				assert.NotEqual(t, state, next, "%s: %s loops to itself", kind, state)
				assert.NotEqual(t, StateCreated, next, "%s: %s re-enters created", kind, state)
				assert.True(t, IsValidState(kind, next), "%s: %s -> %s targets an unknown state", kind, state, next)
			}
		}
	}
}

func TestNextStates_ReturnsCopy(t *testing.T) {
	first := NextStates(KindPurchaseOrder, StateCreated)
	first[0] = StatePaid
	second := NextStates(KindPurchaseOrder, StateCreated)
	assert.Equal(t, StatePendingApproval, second[0])
}

func TestHoldsReservation(t *testing.T) {
	assert.True(t, HoldsReservation(StateConfirmed))
	assert.True(t, HoldsReservation(StatePacked))
	assert.False(t, HoldsReservation(StateCreated))
	assert.False(t, HoldsReservation(StateShipped))
	assert.False(t, HoldsReservation(StateCancelled))
}
