package order

import (
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// Event types for the order aggregate
const (
	EventOrderCreated      = "order.created"
	EventOrderStateChanged = "order.state_changed"
	EventOrderInvoiced     = "order.invoiced"
)

// AggregateTypeOrder is the aggregate type tag used on order events
const AggregateTypeOrder = "Order"

// OrderCreatedEvent is emitted when a new order enters the created state
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind   `json:"kind"`
	OrderNumber string `json:"order_number"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCreated, AggregateTypeOrder, o.ID),
		Kind:            o.Kind,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderStateChangedEvent is emitted for every applied transition
type OrderStateChangedEvent struct {
	shared.BaseDomainEvent
	Kind        Kind   `json:"kind"`
	OrderNumber string `json:"order_number"`
	FromState   State  `json:"from_state"`
	ToState     State  `json:"to_state"`
	Actor       string `json:"actor"`
}

// NewOrderStateChangedEvent creates a new OrderStateChangedEvent
func NewOrderStateChangedEvent(o *Order, from, to State, actor string) *OrderStateChangedEvent {
	return &OrderStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderStateChanged, AggregateTypeOrder, o.ID),
		Kind:            o.Kind,
		OrderNumber:     o.OrderNumber,
		FromState:       from,
		ToState:         to,
		Actor:           actor,
	}
}

// OrderInvoicedEvent is emitted when an order is invoiced. The receivable
// amount is the order's final amount minus approved credit notes; downstream
// invoicing consumes this event rather than being called directly.
type OrderInvoicedEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string          `json:"order_number"`
	InvoiceNumber    string          `json:"invoice_number"`
	ReceivableAmount decimal.Decimal `json:"receivable_amount"`
}

// NewOrderInvoicedEvent creates a new OrderInvoicedEvent.
// The receivable amount defaults to the order's final amount; the lifecycle
// engine adjusts it for approved credit notes before publishing.
func NewOrderInvoicedEvent(o *Order, invoiceNumber string) *OrderInvoicedEvent {
	return &OrderInvoicedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventOrderInvoiced, AggregateTypeOrder, o.ID),
		OrderNumber:      o.OrderNumber,
		InvoiceNumber:    invoiceNumber,
		ReceivableAmount: o.FinalAmount,
	}
}
