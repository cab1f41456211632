package persistence

import (
	"context"

	"gorm.io/gorm"

	apporder "github.com/pharmadist/backend/internal/application/order"
	appreturns "github.com/pharmadist/backend/internal/application/returns"
	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/returns"
)

// txRepositories bundles every repository bound to one transaction. Its
// method set covers both the lifecycle engine's and the returns subsystem's
// transactional repository interfaces.
type txRepositories struct {
	orderRepo      *GormOrderRepository
	historyRepo    *GormStatusHistoryRepository
	returnRepo     *GormReturnRepository
	creditNoteRepo *GormCreditNoteRepository
	ledger         *GormLedger
}

func newTxRepositories(tx *gorm.DB) *txRepositories {
	return &txRepositories{
		orderRepo:      NewGormOrderRepository(tx),
		historyRepo:    NewGormStatusHistoryRepository(tx),
		returnRepo:     NewGormReturnRepository(tx),
		creditNoteRepo: NewGormCreditNoteRepository(tx),
		ledger:         NewGormLedgerForDB(tx),
	}
}

func (r *txRepositories) OrderRepo() order.Repository                 { return r.orderRepo }
func (r *txRepositories) HistoryRepo() order.StatusHistoryRepository  { return r.historyRepo }
func (r *txRepositories) ReturnRepo() returns.Repository              { return r.returnRepo }
func (r *txRepositories) CreditNoteRepo() returns.CreditNoteRepository {
	return r.creditNoteRepo
}
func (r *txRepositories) Ledger() inventory.Ledger { return r.ledger }

// GormOrderTransactionScope implements the lifecycle engine's transaction
// scope on a real database transaction. Everything the engine does during a
// transition commits or rolls back as one unit.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

// GormReturnsTransactionScope implements the returns subsystem's transaction
// scope on a real database transaction
type GormReturnsTransactionScope struct {
	db *gorm.DB
}

// NewGormReturnsTransactionScope creates a new GormReturnsTransactionScope
func NewGormReturnsTransactionScope(db *gorm.DB) *GormReturnsTransactionScope {
	return &GormReturnsTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormReturnsTransactionScope) Execute(ctx context.Context, fn func(repos appreturns.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

// Ensure the scopes implement their application interfaces
var (
	_ apporder.TransactionScope            = (*GormOrderTransactionScope)(nil)
	_ appreturns.TransactionScope          = (*GormReturnsTransactionScope)(nil)
	_ apporder.TransactionalRepositories   = (*txRepositories)(nil)
	_ appreturns.TransactionalRepositories = (*txRepositories)(nil)
)
