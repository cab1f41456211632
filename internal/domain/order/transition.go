package order

// Kind distinguishes the two order entity kinds sharing the lifecycle engine
type Kind string

const (
	KindPurchaseOrder Kind = "purchase_order" // supplier -> warehouse
	KindCustomerOrder Kind = "customer_order" // retailer -> fulfillment
)

// IsValid checks if the kind is a known entity kind
func (k Kind) IsValid() bool {
	return k == KindPurchaseOrder || k == KindCustomerOrder
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

// State represents a lifecycle state of an order
type State string

const (
	StateCreated         State = "created"
	StatePendingApproval State = "pending_approval"
	StateApproved        State = "approved"
	StateConfirmed       State = "confirmed"
	StatePacked          State = "packed"
	StateShipped         State = "shipped"
	StateDelivered       State = "delivered"
	StateInvoiced        State = "invoiced"
	StatePaid            State = "paid"
	StateReturned        State = "returned" // customer orders only
	StateCancelled       State = "cancelled"
)

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// transitions maps (kind, state) to the set of legal next states.
// Both kinds share the same skeleton; customer orders additionally allow
// delivered -> returned. No entry targets StateCreated and no entry contains
// the state itself.
var transitions = map[Kind]map[State][]State{
	KindPurchaseOrder: {
		StateCreated:         {StatePendingApproval, StateCancelled},
		StatePendingApproval: {StateApproved, StateCancelled},
		StateApproved:        {StateConfirmed, StateCancelled},
		StateConfirmed:       {StatePacked, StateCancelled},
		StatePacked:          {StateShipped, StateCancelled},
		StateShipped:         {StateDelivered, StateCancelled},
		StateDelivered:       {StateInvoiced, StateCancelled},
		StateInvoiced:        {StatePaid, StateCancelled},
		StatePaid:            {},
		StateCancelled:       {},
	},
	KindCustomerOrder: {
		StateCreated:         {StatePendingApproval, StateCancelled},
		StatePendingApproval: {StateApproved, StateCancelled},
		StateApproved:        {StateConfirmed, StateCancelled},
		StateConfirmed:       {StatePacked, StateCancelled},
		StatePacked:          {StateShipped, StateCancelled},
		StateShipped:         {StateDelivered, StateCancelled},
		StateDelivered:       {StateInvoiced, StateReturned, StateCancelled},
		StateInvoiced:        {StatePaid, StateCancelled},
		StatePaid:            {},
		StateReturned:        {},
		StateCancelled:       {},
	},
}

// States returns every state defined for the given kind
func States(kind Kind) []State {
	table, ok := transitions[kind]
	if !ok {
		return nil
	}
	states := make([]State, 0, len(table))
	for s := range table {
		states = append(states, s)
	}
	return states
}

// IsValidState checks whether the state exists in the table for the kind
func IsValidState(kind Kind, state State) bool {
	table, ok := transitions[kind]
	if !ok {
		return false
	}
	_, ok = table[state]
	return ok
}

// NextStates returns the set of legal next states for (kind, state).
// The returned slice is a copy; callers may not mutate the table through it.
func NextStates(kind Kind, state State) []State {
	table, ok := transitions[kind]
	if !ok {
		return nil
	}
	next, ok := table[state]
	if !ok {
		return nil
	}
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// IsLegal reports whether from -> to is an edge in the table for the kind
func IsLegal(kind Kind, from, to State) bool {
	for _, s := range NextStates(kind, from) {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing edges for the kind
func IsTerminal(kind Kind, state State) bool {
	table, ok := transitions[kind]
	if !ok {
		return false
	}
	next, ok := table[state]
	return ok && len(next) == 0
}

// HoldsReservation reports whether an order in this state holds an active
// stock reservation. Reservations are created on entry into confirmed and
// consumed (converted to a debit) on entry into shipped.
func HoldsReservation(state State) bool {
	return state == StateConfirmed || state == StatePacked
}
