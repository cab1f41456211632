package order

import (
	"context"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories the
// lifecycle engine touches in a single transition. When a function is
// executed within a scope, its repository operations commit or roll back
// atomically: a failed ledger side effect never leaves behind a state
// change or history entry.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories and the
// inventory ledger scoped to the current transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() order.Repository
	// HistoryRepo returns the status history repository scoped to the transaction
	HistoryRepo() order.StatusHistoryRepository
	// CreditNoteRepo returns the credit note repository scoped to the transaction
	CreditNoteRepo() returns.CreditNoteRepository
	// Ledger returns the inventory ledger scoped to the transaction
	Ledger() inventory.Ledger
}

// NoOpTransactionScope runs the function against the given repositories
// without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	orderRepo      order.Repository
	historyRepo    order.StatusHistoryRepository
	creditNoteRepo returns.CreditNoteRepository
	ledger         inventory.Ledger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given collaborators.
func NewNoOpTransactionScope(
	orderRepo order.Repository,
	historyRepo order.StatusHistoryRepository,
	creditNoteRepo returns.CreditNoteRepository,
	ledger inventory.Ledger,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:      orderRepo,
		historyRepo:    historyRepo,
		creditNoteRepo: creditNoteRepo,
		ledger:         ledger,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

// HistoryRepo returns the status history repository.
func (s *NoOpTransactionScope) HistoryRepo() order.StatusHistoryRepository {
	return s.historyRepo
}

// CreditNoteRepo returns the credit note repository.
func (s *NoOpTransactionScope) CreditNoteRepo() returns.CreditNoteRepository {
	return s.creditNoteRepo
}

// Ledger returns the inventory ledger.
func (s *NoOpTransactionScope) Ledger() inventory.Ledger {
	return s.ledger
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
