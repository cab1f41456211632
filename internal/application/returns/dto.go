package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/returns"
)

// CreateReturnRequest represents the request to create a return
type CreateReturnRequest struct {
	OrderID   uuid.UUID       `json:"order_id" binding:"required"`
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
}

// ApproveReturnRequest represents the request to approve a return
type ApproveReturnRequest struct {
	Approver string `json:"approver" binding:"required"`
}

// RejectReturnRequest represents the request to reject a return
type RejectReturnRequest struct {
	Rejecter string `json:"rejecter" binding:"required"`
	Reason   string `json:"reason" binding:"required"`
}

// ReturnResponse represents a return in responses
type ReturnResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderID         uuid.UUID       `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Reason          string          `json:"reason"`
	Status          returns.Status  `json:"status"`
	RefundAmount    decimal.Decimal `json:"refund_amount"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	ApprovedBy      string          `json:"approved_by,omitempty"`
	RejectedAt      *time.Time      `json:"rejected_at,omitempty"`
	RejectedBy      string          `json:"rejected_by,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	ProcessedAt     *time.Time      `json:"processed_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CreditNoteResponse represents a credit note in responses
type CreditNoteResponse struct {
	ID        uuid.UUID                `json:"id"`
	OrderID   uuid.UUID                `json:"order_id"`
	ReturnID  uuid.UUID                `json:"return_id"`
	Amount    decimal.Decimal          `json:"amount"`
	Status    returns.CreditNoteStatus `json:"status"`
	SettledAt *time.Time               `json:"settled_at,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// ToReturnResponse converts a domain return to its response DTO
func ToReturnResponse(r *returns.Return) ReturnResponse {
	return ReturnResponse{
		ID:              r.ID,
		OrderID:         r.OrderID,
		OrderNumber:     r.OrderNumber,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		Quantity:        r.Quantity,
		Reason:          r.Reason,
		Status:          r.Status,
		RefundAmount:    r.RefundAmount,
		ApprovedAt:      r.ApprovedAt,
		ApprovedBy:      r.ApprovedBy,
		RejectedAt:      r.RejectedAt,
		RejectedBy:      r.RejectedBy,
		RejectionReason: r.RejectionReason,
		ProcessedAt:     r.ProcessedAt,
		CompletedAt:     r.CompletedAt,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
	}
}

// ToReturnResponses converts domain returns to response DTOs
func ToReturnResponses(rs []returns.Return) []ReturnResponse {
	responses := make([]ReturnResponse, 0, len(rs))
	for idx := range rs {
		responses = append(responses, ToReturnResponse(&rs[idx]))
	}
	return responses
}

// ToCreditNoteResponse converts a domain credit note to its response DTO
func ToCreditNoteResponse(cn *returns.CreditNote) CreditNoteResponse {
	return CreditNoteResponse{
		ID:        cn.ID,
		OrderID:   cn.OrderID,
		ReturnID:  cn.ReturnID,
		Amount:    cn.Amount,
		Status:    cn.Status,
		SettledAt: cn.SettledAt,
		CreatedAt: cn.CreatedAt,
	}
}
