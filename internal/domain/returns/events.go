package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// Event types for the returns subsystem
const (
	EventReturnRequested  = "return.requested"
	EventReturnApproved   = "return.approved"
	EventReturnRejected   = "return.rejected"
	EventReturnProcessed  = "return.processed"
	EventReturnCompleted  = "return.completed"
	EventCreditNoteIssued = "credit_note.issued"
	EventCreditNoteSettled = "credit_note.settled"
)

// Aggregate type tags
const (
	AggregateTypeReturn     = "Return"
	AggregateTypeCreditNote = "CreditNote"
)

// ReturnEvent carries the shared payload of all return lifecycle events
type ReturnEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Status       Status          `json:"status"`
}

func newReturnEvent(eventType string, r *Return) *ReturnEvent {
	return &ReturnEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeReturn, r.ID),
		OrderID:         r.OrderID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		RefundAmount:    r.RefundAmount,
		Status:          r.Status,
	}
}

// NewReturnRequestedEvent creates the event for a newly requested return
func NewReturnRequestedEvent(r *Return) *ReturnEvent {
	return newReturnEvent(EventReturnRequested, r)
}

// NewReturnApprovedEvent creates the event for an approved return
func NewReturnApprovedEvent(r *Return) *ReturnEvent {
	return newReturnEvent(EventReturnApproved, r)
}

// NewReturnRejectedEvent creates the event for a rejected return
func NewReturnRejectedEvent(r *Return) *ReturnEvent {
	return newReturnEvent(EventReturnRejected, r)
}

// NewReturnProcessedEvent creates the event for a processed return
func NewReturnProcessedEvent(r *Return) *ReturnEvent {
	return newReturnEvent(EventReturnProcessed, r)
}

// NewReturnCompletedEvent creates the event for a completed return
func NewReturnCompletedEvent(r *Return) *ReturnEvent {
	return newReturnEvent(EventReturnCompleted, r)
}

// CreditNoteEvent carries the payload of credit-note events
type CreditNoteEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID        `json:"order_id"`
	ReturnID uuid.UUID        `json:"return_id"`
	Amount   decimal.Decimal  `json:"amount"`
	Status   CreditNoteStatus `json:"status"`
}

func newCreditNoteEvent(eventType string, cn *CreditNote) *CreditNoteEvent {
	return &CreditNoteEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCreditNote, cn.ID),
		OrderID:         cn.OrderID,
		ReturnID:        cn.ReturnID,
		Amount:          cn.Amount,
		Status:          cn.Status,
	}
}

// NewCreditNoteIssuedEvent creates the event for an issued credit note
func NewCreditNoteIssuedEvent(cn *CreditNote) *CreditNoteEvent {
	return newCreditNoteEvent(EventCreditNoteIssued, cn)
}

// NewCreditNoteSettledEvent creates the event for a settled credit note
func NewCreditNoteSettledEvent(cn *CreditNote) *CreditNoteEvent {
	return newCreditNoteEvent(EventCreditNoteSettled, cn)
}
