package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds orders with filtering and pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order
	Save(ctx context.Context, o *Order) error

	// SaveWithLock saves with an optimistic version check; returns
	// shared.ErrConcurrencyConflict when the stored version has moved on
	SaveWithLock(ctx context.Context, o *Order) error

	// Delete removes an order (only meaningful for created orders)
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateOrderNumber generates the next number for the kind
	// (PO-YYYY-NNNNN for purchase orders, CO-YYYY-NNNNN for customer orders)
	GenerateOrderNumber(ctx context.Context, kind Kind) (string, error)
}

// StatusHistoryRepository persists the append-only transition audit trail
type StatusHistoryRepository interface {
	// Append writes one history entry; entries are never updated or deleted
	Append(ctx context.Context, entry *StatusHistoryEntry) error

	// FindByOrder returns all entries for an order ordered by time ascending
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]StatusHistoryEntry, error)

	// CountByOrder counts entries for an order
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}
