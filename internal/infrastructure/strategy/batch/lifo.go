package batch

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pharmadist/backend/internal/domain/inventory"
)

// LIFOSelector implements Last In First Out batch selection.
// Batches are consumed in reverse received-date order, newest first.
type LIFOSelector struct{}

// NewLIFOSelector creates a new LIFO selector
func NewLIFOSelector() *LIFOSelector {
	return &LIFOSelector{}
}

// Name returns the method name implemented by the selector
func (s *LIFOSelector) Name() inventory.Method {
	return inventory.MethodLIFO
}

// Select splits quantity across batches in LIFO order
func (s *LIFOSelector) Select(batches []inventory.StockBatch, quantity decimal.Decimal, preferBatch string) ([]inventory.BatchAllocation, error) {
	candidates := availableBatches(batches)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ReceivedAt.After(candidates[j].ReceivedAt)
	})
	if preferBatch != "" {
		candidates = prioritizeBatch(candidates, preferBatch)
	}
	return allocate(candidates, quantity)
}

// SelectorFor returns the selector implementing the given method.
// FIFO is the fallback for unknown methods.
func SelectorFor(method inventory.Method) inventory.BatchSelector {
	if method == inventory.MethodLIFO {
		return NewLIFOSelector()
	}
	return NewFIFOSelector()
}

// Ensure LIFOSelector implements BatchSelector
var _ inventory.BatchSelector = (*LIFOSelector)(nil)
