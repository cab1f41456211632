package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/returns"
)

// ReturnModel is the persistence model for the Return aggregate root
type ReturnModel struct {
	AggregateModel
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber     string          `gorm:"type:varchar(50);not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason          string          `gorm:"type:varchar(500);not null"`
	Status          returns.Status  `gorm:"type:varchar(20);not null;index"`
	RefundAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ApprovedAt      *time.Time
	ApprovedBy      string `gorm:"type:varchar(100)"`
	RejectedAt      *time.Time
	RejectedBy      string `gorm:"type:varchar(100)"`
	RejectionReason string `gorm:"type:varchar(500)"`
	ProcessedAt     *time.Time
	CompletedAt     *time.Time
}

// TableName returns the table name for GORM
func (ReturnModel) TableName() string {
	return "returns"
}

// ToDomain converts the persistence model to a domain Return
func (m *ReturnModel) ToDomain() *returns.Return {
	return &returns.Return{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		OrderNumber:       m.OrderNumber,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		Quantity:          m.Quantity,
		Reason:            m.Reason,
		Status:            m.Status,
		RefundAmount:      m.RefundAmount,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		RejectedAt:        m.RejectedAt,
		RejectedBy:        m.RejectedBy,
		RejectionReason:   m.RejectionReason,
		ProcessedAt:       m.ProcessedAt,
		CompletedAt:       m.CompletedAt,
	}
}

// FromDomain populates the persistence model from a domain Return
func (m *ReturnModel) FromDomain(r *returns.Return) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.OrderID = r.OrderID
	m.OrderNumber = r.OrderNumber
	m.ProductID = r.ProductID
	m.ProductName = r.ProductName
	m.Quantity = r.Quantity
	m.Reason = r.Reason
	m.Status = r.Status
	m.RefundAmount = r.RefundAmount
	m.ApprovedAt = r.ApprovedAt
	m.ApprovedBy = r.ApprovedBy
	m.RejectedAt = r.RejectedAt
	m.RejectedBy = r.RejectedBy
	m.RejectionReason = r.RejectionReason
	m.ProcessedAt = r.ProcessedAt
	m.CompletedAt = r.CompletedAt
}

// CreditNoteModel is the persistence model for a credit note.
// The unique index on return_id enforces one credit note per return
// at the storage layer as well.
type CreditNoteModel struct {
	AggregateModel
	OrderID   uuid.UUID                `gorm:"type:uuid;not null;index"`
	ReturnID  uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex"`
	Amount    decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Status    returns.CreditNoteStatus `gorm:"type:varchar(20);not null"`
	SettledAt *time.Time
}

// TableName returns the table name for GORM
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToDomain converts the persistence model to a domain CreditNote
func (m *CreditNoteModel) ToDomain() *returns.CreditNote {
	return &returns.CreditNote{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderID:           m.OrderID,
		ReturnID:          m.ReturnID,
		Amount:            m.Amount,
		Status:            m.Status,
		SettledAt:         m.SettledAt,
	}
}

// FromDomain populates the persistence model from a domain CreditNote
func (m *CreditNoteModel) FromDomain(cn *returns.CreditNote) {
	m.FromDomainAggregateRoot(cn.BaseAggregateRoot)
	m.OrderID = cn.OrderID
	m.ReturnID = cn.ReturnID
	m.Amount = cn.Amount
	m.Status = cn.Status
	m.SettledAt = cn.SettledAt
}
