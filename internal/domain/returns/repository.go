package returns

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository defines the interface for return persistence
type Repository interface {
	// FindByID finds a return by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)

	// FindByOrder finds all returns for an order
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Return, error)

	// SumActiveQuantity sums the quantity of all non-rejected returns for a
	// product on an order. This is the consumed portion of the returnable
	// balance; pending requests count so they cannot be over-committed.
	SumActiveQuantity(ctx context.Context, orderID, productID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a return
	Save(ctx context.Context, r *Return) error

	// SaveWithLock saves with an optimistic version check
	SaveWithLock(ctx context.Context, r *Return) error
}

// CreditNoteRepository defines the interface for credit note persistence
type CreditNoteRepository interface {
	// FindByID finds a credit note by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditNote, error)

	// FindByReturn finds the credit note for a return, if any
	FindByReturn(ctx context.Context, returnID uuid.UUID) (*CreditNote, error)

	// ExistsByReturn reports whether a credit note exists for the return
	ExistsByReturn(ctx context.Context, returnID uuid.UUID) (bool, error)

	// SumApprovedByOrder sums unsettled credit note amounts for an order.
	// Used by the lifecycle engine to compute the receivable on invoicing.
	SumApprovedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a credit note
	Save(ctx context.Context, cn *CreditNote) error
}
