package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// Method determines which stock batch is consumed first
type Method string

const (
	MethodFIFO Method = "FIFO"
	MethodLIFO Method = "LIFO"
)

// IsValid checks if the method is a known allocation method
func (m Method) IsValid() bool {
	return m == MethodFIFO || m == MethodLIFO
}

// Reservation is a soft hold on warehouse stock tied to a specific order
// line and batch. It is reversible (released) until fulfillment converts it
// into a stock debit (consumed).
type Reservation struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber string          `gorm:"type:varchar(100);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Method      Method          `gorm:"type:varchar(10);not null"`
	Released    bool            `gorm:"not null;default:false"` // cancelled, stock returned to available
	Consumed    bool            `gorm:"not null;default:false"` // fulfilled, converted to a debit
	ReleasedAt  *time.Time      `gorm:"type:timestamp"`
}

// TableName returns the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// NewReservation creates a new active reservation
func NewReservation(orderID, productID, warehouseID uuid.UUID, batchNumber string, quantity decimal.Decimal, method Method) *Reservation {
	return &Reservation{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductID:   productID,
		WarehouseID: warehouseID,
		BatchNumber: batchNumber,
		Quantity:    quantity,
		Method:      method,
	}
}

// IsActive returns true if the reservation still holds stock
func (r *Reservation) IsActive() bool {
	return !r.Released && !r.Consumed
}

// Release marks the reservation as released (cancellation path)
func (r *Reservation) Release() {
	now := time.Now()
	r.Released = true
	r.ReleasedAt = &now
	r.UpdatedAt = now
}

// Consume marks the reservation as consumed (fulfillment path)
func (r *Reservation) Consume() {
	now := time.Now()
	r.Consumed = true
	r.ReleasedAt = &now
	r.UpdatedAt = now
}
