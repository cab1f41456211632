package returns

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pharmadist/backend/internal/domain/returns"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// ReturnService handles the returns and credit-note subsystem. Returns are
// requested against delivered customer orders, and at most one credit note
// is ever issued per return.
type ReturnService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope TransactionScope, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		scope:  scope,
		logger: logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create requests a return against a delivered customer order. The quantity
// is checked against the returnable balance: ordered quantity minus all
// earlier non-rejected returns for the same product.
func (s *ReturnService) Create(ctx context.Context, req CreateReturnRequest) (*ReturnResponse, error) {
	var result *returns.Return

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		r, err := returns.NewReturn(o, req.ProductID, req.Quantity, req.Reason)
		if err != nil {
			return err
		}

		item := o.GetItemByProduct(req.ProductID)
		consumed, err := repos.ReturnRepo().SumActiveQuantity(ctx, req.OrderID, req.ProductID)
		if err != nil {
			return err
		}
		if consumed.Add(req.Quantity).GreaterThan(item.Quantity) {
			return shared.NewDomainError("QUANTITY_EXCEEDED",
				fmt.Sprintf("Return quantity %s exceeds the returnable balance %s",
					req.Quantity.String(), item.Quantity.Sub(consumed).String()))
		}

		if err := repos.ReturnRepo().Save(ctx, r); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return requested",
		zap.String("return_id", result.ID.String()),
		zap.String("order_number", result.OrderNumber),
		zap.String("quantity", result.Quantity.String()))

	s.publishReturnEvents(ctx, result)

	response := ToReturnResponse(result)
	return &response, nil
}

// GetByID retrieves a return by ID
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	var result *returns.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(result)
	return &response, nil
}

// ListByOrder retrieves all returns for an order
func (s *ReturnService) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]ReturnResponse, error) {
	var result []returns.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rs, err := repos.ReturnRepo().FindByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		result = rs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToReturnResponses(result), nil
}

// Approve moves a requested return to approved
func (s *ReturnService) Approve(ctx context.Context, returnID uuid.UUID, req ApproveReturnRequest) (*ReturnResponse, error) {
	var result *returns.Return

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := r.Approve(req.Approver); err != nil {
			return err
		}

		if err := repos.ReturnRepo().SaveWithLock(ctx, r); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishReturnEvents(ctx, result)

	response := ToReturnResponse(result)
	return &response, nil
}

// Reject moves a requested return to rejected, releasing its claim on the
// returnable balance. An approved return can no longer be rejected.
func (s *ReturnService) Reject(ctx context.Context, returnID uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	var result *returns.Return

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := r.Reject(req.Rejecter, req.Reason); err != nil {
			return err
		}

		if err := repos.ReturnRepo().SaveWithLock(ctx, r); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishReturnEvents(ctx, result)

	response := ToReturnResponse(result)
	return &response, nil
}

// CreateCreditNote issues the credit note for an approved return and
// advances the return to processed. The two updates commit together, and a
// second call for the same return fails with DUPLICATE_CREDIT_NOTE.
func (s *ReturnService) CreateCreditNote(ctx context.Context, returnID uuid.UUID) (*CreditNoteResponse, error) {
	var (
		resultNote   *returns.CreditNote
		resultReturn *returns.Return
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.CreditNoteRepo().ExistsByReturn(ctx, returnID)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrDuplicateCreditNote
		}

		r, err := repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		cn, err := returns.NewCreditNote(r)
		if err != nil {
			return err
		}

		if err := r.MarkProcessed(); err != nil {
			return err
		}

		if err := repos.CreditNoteRepo().Save(ctx, cn); err != nil {
			return err
		}
		if err := repos.ReturnRepo().SaveWithLock(ctx, r); err != nil {
			return err
		}

		resultNote = cn
		resultReturn = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("credit note issued",
		zap.String("credit_note_id", resultNote.ID.String()),
		zap.String("return_id", returnID.String()),
		zap.String("amount", resultNote.Amount.String()))

	s.publishReturnEvents(ctx, resultReturn)
	s.publishCreditNoteEvents(ctx, resultNote)

	response := ToCreditNoteResponse(resultNote)
	return &response, nil
}

// Complete finishes a processed return: the credit note is settled, the
// returned stock is credited back into the warehouse, and the returned
// quantity is registered on the order line. The parent order state is not
// reopened.
func (s *ReturnService) Complete(ctx context.Context, returnID uuid.UUID) (*ReturnResponse, error) {
	var (
		resultReturn *returns.Return
		resultNote   *returns.CreditNote
	)

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		r, err := repos.ReturnRepo().FindByID(ctx, returnID)
		if err != nil {
			return err
		}

		if err := r.Complete(); err != nil {
			return err
		}

		cn, err := repos.CreditNoteRepo().FindByReturn(ctx, returnID)
		if err != nil {
			return err
		}
		if err := cn.Settle(); err != nil {
			return err
		}

		o, err := repos.OrderRepo().FindByID(ctx, r.OrderID)
		if err != nil {
			return err
		}
		if err := o.RegisterReturnedQuantity(r.ProductID, r.Quantity); err != nil {
			return err
		}

		item := o.GetItemByProduct(r.ProductID)
		batchNumber := item.BatchNumber
		if batchNumber == "" {
			batchNumber = fmt.Sprintf("RET-%s", r.ID.String()[:8])
		}
		if err := repos.Ledger().Credit(ctx, r.ProductID, o.WarehouseID, batchNumber, r.Quantity); err != nil {
			return err
		}

		if err := repos.ReturnRepo().SaveWithLock(ctx, r); err != nil {
			return err
		}
		if err := repos.CreditNoteRepo().Save(ctx, cn); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
			return err
		}

		resultReturn = r
		resultNote = cn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return completed",
		zap.String("return_id", resultReturn.ID.String()),
		zap.String("order_number", resultReturn.OrderNumber))

	s.publishReturnEvents(ctx, resultReturn)
	s.publishCreditNoteEvents(ctx, resultNote)

	response := ToReturnResponse(resultReturn)
	return &response, nil
}

// GetCreditNote retrieves the credit note for a return
func (s *ReturnService) GetCreditNote(ctx context.Context, returnID uuid.UUID) (*CreditNoteResponse, error) {
	var result *returns.CreditNote
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		cn, err := repos.CreditNoteRepo().FindByReturn(ctx, returnID)
		if err != nil {
			return err
		}
		result = cn
		return nil
	})
	if err != nil {
		return nil, err
	}
	response := ToCreditNoteResponse(result)
	return &response, nil
}

func (s *ReturnService) publishReturnEvents(ctx context.Context, r *returns.Return) {
	if s.eventPublisher == nil {
		r.ClearDomainEvents()
		return
	}
	for _, event := range r.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	r.ClearDomainEvents()
}

func (s *ReturnService) publishCreditNoteEvents(ctx context.Context, cn *returns.CreditNote) {
	if s.eventPublisher == nil {
		cn.ClearDomainEvents()
		return
	}
	for _, event := range cn.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	cn.ClearDomainEvents()
}
