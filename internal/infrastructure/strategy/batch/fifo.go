// Package batch implements the stock batch allocation policies used when
// reserving order lines against warehouse batches.
package batch

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// FIFOSelector implements First In First Out batch selection.
// Batches are consumed in received-date order, oldest first.
type FIFOSelector struct{}

// NewFIFOSelector creates a new FIFO selector
func NewFIFOSelector() *FIFOSelector {
	return &FIFOSelector{}
}

// Name returns the method name implemented by the selector
func (s *FIFOSelector) Name() inventory.Method {
	return inventory.MethodFIFO
}

// Select splits quantity across batches in FIFO order
func (s *FIFOSelector) Select(batches []inventory.StockBatch, quantity decimal.Decimal, preferBatch string) ([]inventory.BatchAllocation, error) {
	candidates := availableBatches(batches)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReceivedAt.Before(candidates[j].ReceivedAt)
	})
	if preferBatch != "" {
		candidates = prioritizeBatch(candidates, preferBatch)
	}
	return allocate(candidates, quantity)
}

// availableBatches drops batches with nothing left to reserve
func availableBatches(batches []inventory.StockBatch) []inventory.StockBatch {
	filtered := make([]inventory.StockBatch, 0, len(batches))
	for _, b := range batches {
		if b.Available().IsPositive() {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// prioritizeBatch moves the preferred batch to the front of the list
func prioritizeBatch(batches []inventory.StockBatch, preferred string) []inventory.StockBatch {
	result := make([]inventory.StockBatch, 0, len(batches))
	var hit *inventory.StockBatch

	for i := range batches {
		if batches[i].BatchNumber == preferred {
			hit = &batches[i]
		} else {
			result = append(result, batches[i])
		}
	}

	if hit != nil {
		result = append([]inventory.StockBatch{*hit}, result...)
	}

	return result
}

// allocate splits quantity across ordered batches. Fails if the batches
// cannot cover it; no partial allocation is ever returned.
func allocate(batches []inventory.StockBatch, quantity decimal.Decimal) ([]inventory.BatchAllocation, error) {
	remaining := quantity
	allocations := make([]inventory.BatchAllocation, 0)

	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, b.Available())
		allocations = append(allocations, inventory.BatchAllocation{
			BatchNumber: b.BatchNumber,
			Quantity:    take,
		})
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Available batches cannot cover the requested quantity")
	}

	return allocations, nil
}

// Ensure FIFOSelector implements BatchSelector
var _ inventory.BatchSelector = (*FIFOSelector)(nil)
