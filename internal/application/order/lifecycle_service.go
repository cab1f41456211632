package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/domain/shipping"
)

// DefaultLedgerTimeout bounds a single inventory ledger call so a slow
// ledger cannot hold the transition transaction open indefinitely.
const DefaultLedgerTimeout = 5 * time.Second

// LifecycleService is the order lifecycle engine. It validates a requested
// transition against the transition table, runs the side effects for the
// target state against the inventory ledger and the carrier, appends exactly
// one history entry, and persists the new state — all within one transaction.
type LifecycleService struct {
	scope          TransactionScope
	carrier        shipping.CarrierService
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	tracer         trace.Tracer
	ledgerTimeout  time.Duration
}

// NewLifecycleService creates a new LifecycleService
func NewLifecycleService(scope TransactionScope, carrier shipping.CarrierService, logger *zap.Logger, tracer trace.Tracer) *LifecycleService {
	return &LifecycleService{
		scope:         scope,
		carrier:       carrier,
		logger:        logger,
		tracer:        tracer,
		ledgerTimeout: DefaultLedgerTimeout,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LifecycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLedgerTimeout overrides the per-call timeout on ledger operations
func (s *LifecycleService) SetLedgerTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.ledgerTimeout = timeout
	}
}

// Transition applies a lifecycle transition to an order. On success exactly
// one history entry is appended; on any failure nothing is persisted and the
// order remains in its previous state.
func (s *LifecycleService) Transition(ctx context.Context, orderID uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	ctx, span := s.tracer.Start(ctx, "lifecycle.Transition",
		trace.WithAttributes(
			attribute.String("order.id", orderID.String()),
			attribute.String("transition.to", req.To.String()),
		))
	defer span.End()

	var result *order.Order

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if req.ExpectedVersion != nil && *req.ExpectedVersion != o.Version {
			return shared.ErrConcurrencyConflict
		}

		meta := order.TransitionMetadata{
			Actor:          req.Actor,
			Notes:          req.Notes,
			TrackingNumber: req.TrackingNumber,
			InvoiceNumber:  req.InvoiceNumber,
			Reason:         req.Reason,
		}

		// Table legality is settled before any collaborator is touched; an
		// illegal request must not create a label at the carrier.
		if err := o.CanTransitionTo(req.To); err != nil {
			return err
		}

		// The carrier fills the tracking number for shipped, so it runs
		// before the metadata-completeness check in CanApply.
		if req.To == order.StateShipped && meta.TrackingNumber == "" && s.carrier != nil {
			label, err := s.carrier.CreateLabel(ctx, shipping.LabelRequest{
				OrderID:     o.ID,
				OrderNumber: o.OrderNumber,
				WarehouseID: o.WarehouseID,
				Parcels:     1,
			})
			if err != nil {
				return err
			}
			meta.TrackingNumber = label.TrackingNumber
		}

		if err := o.CanApply(req.To, meta); err != nil {
			return err
		}

		if err := s.runSideEffects(ctx, repos, o, req.To); err != nil {
			return err
		}

		entry, err := o.ApplyTransition(req.To, meta)
		if err != nil {
			return err
		}

		if req.To == order.StateInvoiced {
			if err := s.adjustReceivable(ctx, repos, o); err != nil {
				return err
			}
		}

		if err := repos.HistoryRepo().Append(ctx, entry); err != nil {
			return err
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
			return err
		}

		result = o
		return nil
	})
	if err != nil {
		s.logger.Warn("transition rejected",
			zap.String("order_id", orderID.String()),
			zap.String("to", req.To.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("transition applied",
		zap.String("order_id", result.ID.String()),
		zap.String("order_number", result.OrderNumber),
		zap.String("state", result.State.String()))

	// Events are published after the transaction commits; delivery is
	// best-effort and never fails the transition.
	s.publishEvents(ctx, result)

	response := ToOrderResponse(result)
	return &response, nil
}

// runSideEffects executes the inventory side effects for the target state.
// They run inside the transition transaction so a ledger failure rolls back
// the whole attempt.
func (s *LifecycleService) runSideEffects(ctx context.Context, repos TransactionalRepositories, o *order.Order, to order.State) error {
	ledgerCtx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()

	switch to {
	case order.StateConfirmed:
		lines := make([]inventory.ReservationLine, 0, len(o.Items))
		for _, item := range o.Items {
			lines = append(lines, inventory.ReservationLine{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				PreferBatch: item.BatchNumber,
			})
		}
		_, err := repos.Ledger().Reserve(ledgerCtx, o.ID, o.WarehouseID, lines, toInventoryMethod(o.StockMethod))
		return err

	case order.StateShipped:
		return repos.Ledger().Debit(ledgerCtx, o.ID)

	case order.StateCancelled:
		return repos.Ledger().Release(ledgerCtx, o.ID)
	}

	return nil
}

// adjustReceivable rewrites the receivable on the pending invoiced event to
// the order's final amount minus already-approved credit notes.
func (s *LifecycleService) adjustReceivable(ctx context.Context, repos TransactionalRepositories, o *order.Order) error {
	creditTotal, err := repos.CreditNoteRepo().SumApprovedByOrder(ctx, o.ID)
	if err != nil {
		return err
	}
	if creditTotal.IsZero() {
		return nil
	}

	for _, event := range o.GetDomainEvents() {
		if invoiced, ok := event.(*order.OrderInvoicedEvent); ok {
			invoiced.ReceivableAmount = o.FinalAmount.Sub(creditTotal)
		}
	}
	return nil
}

func (s *LifecycleService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		o.ClearDomainEvents()
		return
	}
	for _, event := range o.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	o.ClearDomainEvents()
}

func toInventoryMethod(m order.StockMethod) inventory.Method {
	if m == order.StockMethodLIFO {
		return inventory.MethodLIFO
	}
	return inventory.MethodFIFO
}
