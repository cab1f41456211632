package returns

import (
	"context"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/returns"
)

// TransactionScope provides transactional access to the repositories the
// returns subsystem touches. Credit-note issuance and return completion
// update two aggregates each; the scope makes those updates atomic.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories scoped to
// the current transaction.
type TransactionalRepositories interface {
	// ReturnRepo returns the return repository scoped to the transaction
	ReturnRepo() returns.Repository
	// CreditNoteRepo returns the credit note repository scoped to the transaction
	CreditNoteRepo() returns.CreditNoteRepository
	// OrderRepo returns the order repository scoped to the transaction
	OrderRepo() order.Repository
	// Ledger returns the inventory ledger scoped to the transaction
	Ledger() inventory.Ledger
}

// NoOpTransactionScope runs the function against the given repositories
// without a real transaction. Used in tests.
type NoOpTransactionScope struct {
	returnRepo     returns.Repository
	creditNoteRepo returns.CreditNoteRepository
	orderRepo      order.Repository
	ledger         inventory.Ledger
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given collaborators.
func NewNoOpTransactionScope(
	returnRepo returns.Repository,
	creditNoteRepo returns.CreditNoteRepository,
	orderRepo order.Repository,
	ledger inventory.Ledger,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		returnRepo:     returnRepo,
		creditNoteRepo: creditNoteRepo,
		orderRepo:      orderRepo,
		ledger:         ledger,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ReturnRepo returns the return repository.
func (s *NoOpTransactionScope) ReturnRepo() returns.Repository {
	return s.returnRepo
}

// CreditNoteRepo returns the credit note repository.
func (s *NoOpTransactionScope) CreditNoteRepo() returns.CreditNoteRepository {
	return s.creditNoteRepo
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.Repository {
	return s.orderRepo
}

// Ledger returns the inventory ledger.
func (s *NoOpTransactionScope) Ledger() inventory.Ledger {
	return s.ledger
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
