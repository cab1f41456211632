package order

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistoryEntry records a single applied transition. Entries are
// append-only: they are never edited or deleted, and replaying the ToState
// sequence in ChangedAt order reconstructs the order's current state.
type StatusHistoryEntry struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	FromState State
	ToState   State
	ChangedBy string
	ChangedAt time.Time
	Notes     string
}

// NewStatusHistoryEntry creates a new history entry
func NewStatusHistoryEntry(orderID uuid.UUID, from, to State, changedBy, notes string) *StatusHistoryEntry {
	return &StatusHistoryEntry{
		ID:        uuid.New(),
		OrderID:   orderID,
		FromState: from,
		ToState:   to,
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
		Notes:     notes,
	}
}

// ReplayState folds a history ordered by time ascending into the state it
// reconstructs. Returns StateCreated for an empty history.
func ReplayState(entries []StatusHistoryEntry) State {
	state := StateCreated
	for _, e := range entries {
		state = e.ToState
	}
	return state
}
