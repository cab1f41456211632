package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// Status represents the status of a return
type Status string

const (
	StatusRequested Status = "requested"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected" // terminal, only reachable from requested
	StatusProcessed Status = "processed"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusApproved, StatusRejected, StatusProcessed, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Rejection is only legal from requested; an approved return can only move
// forward.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusRequested:
		return target == StatusApproved || target == StatusRejected
	case StatusApproved:
		return target == StatusProcessed
	case StatusProcessed:
		return target == StatusCompleted
	case StatusRejected, StatusCompleted:
		return false
	}
	return false
}

// Return is the aggregate root for a single-product return against a
// delivered customer order.
type Return struct {
	shared.BaseAggregateRoot
	OrderID         uuid.UUID
	OrderNumber     string
	ProductID       uuid.UUID
	ProductName     string
	Quantity        decimal.Decimal
	Reason          string
	Status          Status
	RefundAmount    decimal.Decimal // net unit price pro-rated by quantity
	ApprovedAt      *time.Time
	ApprovedBy      string
	RejectedAt      *time.Time
	RejectedBy      string
	RejectionReason string
	ProcessedAt     *time.Time
	CompletedAt     *time.Time
}

// NewReturn creates a return request against a delivered order line.
// The caller is responsible for checking the returnable balance across
// earlier returns; this constructor only validates the single line.
func NewReturn(o *order.Order, productID uuid.UUID, quantity decimal.Decimal, reason string) (*Return, error) {
	if o == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if o.Kind != order.KindCustomerOrder {
		return nil, shared.NewDomainError("INVALID_ORDER", "Returns are only supported for customer orders")
	}
	if !o.IsDelivered() {
		return nil, shared.NewDomainError("INVALID_STATE", "Returns can only be created for delivered orders")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Return reason is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	item := o.GetItemByProduct(productID)
	if item == nil {
		return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Product is not present on the order")
	}
	if quantity.GreaterThan(item.Quantity) {
		return nil, shared.NewDomainError("QUANTITY_EXCEEDED", "Return quantity exceeds the ordered quantity")
	}

	r := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		ProductID:         productID,
		ProductName:       item.ProductName,
		Quantity:          quantity,
		Reason:            reason,
		Status:            StatusRequested,
		RefundAmount:      item.NetUnitPrice().Mul(quantity).Round(2),
	}

	r.AddDomainEvent(NewReturnRequestedEvent(r))

	return r, nil
}

// Approve transitions the return from requested to approved
func (r *Return) Approve(approver string) error {
	if !r.Status.CanTransitionTo(StatusApproved) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve return in %s status", r.Status))
	}
	if approver == "" {
		return shared.NewDomainError("INVALID_APPROVER", "Approver is required")
	}

	now := time.Now()
	r.Status = StatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = approver
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject transitions the return from requested to rejected.
// Rejection of an approved return is not legal.
func (r *Return) Reject(rejecter, reason string) error {
	if !r.Status.CanTransitionTo(StatusRejected) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject return in %s status", r.Status))
	}
	if rejecter == "" {
		return shared.NewDomainError("INVALID_REJECTER", "Rejecter is required")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = StatusRejected
	r.RejectedAt = &now
	r.RejectedBy = rejecter
	r.RejectionReason = reason
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// MarkProcessed advances the return to processed. Called when the credit
// note is issued; the two operations commit together.
func (r *Return) MarkProcessed() error {
	if !r.Status.CanTransitionTo(StatusProcessed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot process return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusProcessed
	r.ProcessedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnProcessedEvent(r))

	return nil
}

// Complete marks the return completed after the credit note is settled.
// This does not reopen the parent order state.
func (r *Return) Complete() error {
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete return in %s status", r.Status))
	}

	now := time.Now()
	r.Status = StatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now

	r.AddDomainEvent(NewReturnCompletedEvent(r))

	return nil
}

// IsTerminal returns true if the return is rejected or completed
func (r *Return) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCompleted
}

// CountsAgainstBalance reports whether this return consumes returnable
// quantity on its order. Rejected returns release their claim.
func (r *Return) CountsAgainstBalance() bool {
	return r.Status != StatusRejected
}
