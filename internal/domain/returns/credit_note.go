package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// CreditNoteStatus represents the settlement status of a credit note
type CreditNoteStatus string

const (
	CreditNoteStatusIssued  CreditNoteStatus = "issued"
	CreditNoteStatusSettled CreditNoteStatus = "settled"
)

// IsValid checks if the status is a valid CreditNoteStatus
func (s CreditNoteStatus) IsValid() bool {
	return s == CreditNoteStatusIssued || s == CreditNoteStatusSettled
}

// CreditNote is a financial instrument offsetting the customer's receivable
// balance following an approved return. At most one exists per return.
type CreditNote struct {
	shared.BaseAggregateRoot
	OrderID  uuid.UUID
	ReturnID uuid.UUID
	Amount   decimal.Decimal
	Status   CreditNoteStatus
	SettledAt *time.Time
}

// NewCreditNote issues a credit note for an approved return
func NewCreditNote(r *Return) (*CreditNote, error) {
	if r == nil {
		return nil, shared.NewDomainError("INVALID_RETURN", "Return cannot be nil")
	}
	if r.Status != StatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Credit notes can only be issued for approved returns, return is %s", r.Status))
	}
	if r.RefundAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}

	cn := &CreditNote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           r.OrderID,
		ReturnID:          r.ID,
		Amount:            r.RefundAmount,
		Status:            CreditNoteStatusIssued,
	}

	cn.AddDomainEvent(NewCreditNoteIssuedEvent(cn))

	return cn, nil
}

// Settle marks the credit note as settled (refunded or applied to a future
// invoice)
func (cn *CreditNote) Settle() error {
	if cn.Status == CreditNoteStatusSettled {
		return shared.NewDomainError("INVALID_STATE", "Credit note is already settled")
	}

	now := time.Now()
	cn.Status = CreditNoteStatusSettled
	cn.SettledAt = &now
	cn.UpdatedAt = now

	cn.AddDomainEvent(NewCreditNoteSettledEvent(cn))

	return nil
}
