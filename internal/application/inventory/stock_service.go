package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/inventory"
)

// StockService exposes read-only stock queries: the aggregated availability
// position and the per-batch breakdown the allocation strategies work from.
type StockService struct {
	ledger    inventory.Ledger
	batchRepo inventory.StockBatchRepository
}

// NewStockService creates a new StockService
func NewStockService(ledger inventory.Ledger, batchRepo inventory.StockBatchRepository) *StockService {
	return &StockService{
		ledger:    ledger,
		batchRepo: batchRepo,
	}
}

// StockBatchResponse represents one batch in stock query responses
type StockBatchResponse struct {
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	ReceivedAt  time.Time       `json:"received_at"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	Expired     bool            `json:"expired"`
}

// AvailabilityResponse represents the stock position for a product
type AvailabilityResponse struct {
	ProductID   uuid.UUID            `json:"product_id"`
	WarehouseID uuid.UUID            `json:"warehouse_id"`
	OnHand      decimal.Decimal      `json:"on_hand"`
	Reserved    decimal.Decimal      `json:"reserved"`
	Available   decimal.Decimal      `json:"available"`
	Batches     []StockBatchResponse `json:"batches"`
}

// GetAvailability returns the stock position for a product in a warehouse,
// including the per-batch breakdown.
func (s *StockService) GetAvailability(ctx context.Context, productID, warehouseID uuid.UUID) (*AvailabilityResponse, error) {
	position, err := s.ledger.Availability(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.FindByProduct(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	batchResponses := make([]StockBatchResponse, 0, len(batches))
	for idx := range batches {
		b := &batches[idx]
		batchResponses = append(batchResponses, StockBatchResponse{
			BatchNumber: b.BatchNumber,
			ExpiryDate:  b.ExpiryDate,
			ReceivedAt:  b.ReceivedAt,
			OnHand:      b.OnHand,
			Reserved:    b.Reserved,
			Available:   b.Available(),
			Expired:     b.IsExpired(now),
		})
	}

	return &AvailabilityResponse{
		ProductID:   position.ProductID,
		WarehouseID: position.WarehouseID,
		OnHand:      position.OnHand,
		Reserved:    position.Reserved,
		Available:   position.Available,
		Batches:     batchResponses,
	}, nil
}
