package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationLine is one order line to reserve
type ReservationLine struct {
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	PreferBatch string // optional, pins the line to a specific batch first
}

// Availability is a point-in-time stock position for one product in one
// warehouse, aggregated across batches.
type Availability struct {
	ProductID   uuid.UUID       `json:"product_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
}

// Ledger is the inventory collaborator consumed by the lifecycle engine.
// Reserve is all-or-nothing across lines: if any line cannot be fully
// reserved the whole call fails and no partial reservation is left behind.
type Ledger interface {
	// Reserve places a soft hold for every line using the given batch
	// allocation method. Fails with an INSUFFICIENT_STOCK domain error if
	// any line cannot be covered.
	Reserve(ctx context.Context, orderID, warehouseID uuid.UUID, lines []ReservationLine, method Method) ([]Reservation, error)

	// Release returns all outstanding reservations for the order to
	// available stock. Releasing an order with no active reservations is a
	// no-op.
	Release(ctx context.Context, orderID uuid.UUID) error

	// Debit converts all outstanding reservations for the order into stock
	// debits. The reservations are consumed, not merely released.
	Debit(ctx context.Context, orderID uuid.UUID) error

	// Credit adds stock back into a warehouse batch (returns receiving)
	Credit(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string, quantity decimal.Decimal) error

	// Availability reports the aggregated stock position for a product
	Availability(ctx context.Context, productID, warehouseID uuid.UUID) (*Availability, error)
}

// BatchAllocation is one slice of a reservation taken from a single batch
type BatchAllocation struct {
	BatchNumber string
	Quantity    decimal.Decimal
}

// BatchSelector orders candidate batches and splits a requested quantity
// across them. Implementations provide FIFO and LIFO policies.
type BatchSelector interface {
	// Name returns the method name implemented by the selector
	Name() Method

	// Select splits quantity across the given batches. Batches with no
	// available stock are skipped. Fails with an INSUFFICIENT_STOCK domain
	// error when the batches cannot cover the quantity.
	Select(batches []StockBatch, quantity decimal.Decimal, preferBatch string) ([]BatchAllocation, error)
}

// StockBatchRepository persists stock batches
type StockBatchRepository interface {
	// FindByProduct returns all batches for a product in a warehouse
	FindByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]StockBatch, error)

	// FindByBatchNumber returns one batch by its identity
	FindByBatchNumber(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*StockBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *StockBatch) error
}

// ReservationRepository persists reservations
type ReservationRepository interface {
	// FindActiveByOrder returns all active reservations for an order
	FindActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]Reservation, error)

	// Save creates or updates a reservation
	Save(ctx context.Context, r *Reservation) error
}
