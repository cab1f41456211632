package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

const (
	EventStockReserved = "inventory.stock.reserved"
	EventStockReleased = "inventory.stock.released"
	EventStockDebited  = "inventory.stock.debited"
	EventStockCredited = "inventory.stock.credited"
)

// StockReservedEvent is published when a reservation is placed
type StockReservedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	Method      Method          `json:"method"`
}

func NewStockReservedEvent(r *Reservation) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockReserved, "Reservation", r.ID),
		OrderID:         r.OrderID,
		ProductID:       r.ProductID,
		BatchNumber:     r.BatchNumber,
		Quantity:        r.Quantity,
		Method:          r.Method,
	}
}

// StockReleasedEvent is published when reservations return to available stock
type StockReleasedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID       `json:"order_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

func NewStockReleasedEvent(orderID uuid.UUID, quantity decimal.Decimal) *StockReleasedEvent {
	return &StockReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockReleased, "Reservation", orderID),
		OrderID:         orderID,
		Quantity:        quantity,
	}
}

// StockDebitedEvent is published when reserved stock leaves the warehouse
type StockDebitedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID       `json:"order_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

func NewStockDebitedEvent(orderID uuid.UUID, quantity decimal.Decimal) *StockDebitedEvent {
	return &StockDebitedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockDebited, "Reservation", orderID),
		OrderID:         orderID,
		Quantity:        quantity,
	}
}
