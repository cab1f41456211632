package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/shared"
)

// StockBatch is a physical lot of a product in a warehouse. Pharmaceutical
// stock is always batch-tracked: every batch carries an expiry date.
type StockBatch struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_prod_wh"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_prod_wh"`
	BatchNumber string          `gorm:"type:varchar(100);not null"`
	ExpiryDate  *time.Time      `gorm:"type:timestamp"`
	ReceivedAt  time.Time       `gorm:"not null"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reserved    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "stock_batches"
}

// NewStockBatch creates a new stock batch
func NewStockBatch(productID, warehouseID uuid.UUID, batchNumber string, quantity decimal.Decimal, expiryDate *time.Time, receivedAt time.Time) (*StockBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &StockBatch{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		BatchNumber: batchNumber,
		ExpiryDate:  expiryDate,
		ReceivedAt:  receivedAt,
		OnHand:      quantity,
		Reserved:    decimal.Zero,
	}, nil
}

// Available returns the quantity not held by reservations
func (b *StockBatch) Available() decimal.Decimal {
	return b.OnHand.Sub(b.Reserved)
}

// Reserve places a soft hold on the batch
func (b *StockBatch) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(b.Available()) {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough available stock in batch")
	}
	b.Reserved = b.Reserved.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Release returns reserved quantity to available stock
func (b *StockBatch) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(b.Reserved) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than is reserved")
	}
	b.Reserved = b.Reserved.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Debit converts reserved quantity into an outbound stock movement
func (b *StockBatch) Debit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(b.Reserved) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot debit more than is reserved")
	}
	b.Reserved = b.Reserved.Sub(quantity)
	b.OnHand = b.OnHand.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Credit adds quantity back to the batch (returns receiving path)
func (b *StockBatch) Credit(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	b.OnHand = b.OnHand.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// IsExpired reports whether the batch has passed its expiry date
func (b *StockBatch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && now.After(*b.ExpiryDate)
}
