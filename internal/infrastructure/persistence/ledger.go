package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/infrastructure/strategy/batch"
)

// GormLedger implements inventory.Ledger on top of the stock batch and
// reservation repositories. It carries no transaction of its own: the
// transaction scope hands it tx-bound repositories, so a failure anywhere in
// a Reserve rolls back the holds already placed on earlier lines.
type GormLedger struct {
	batches      inventory.StockBatchRepository
	reservations inventory.ReservationRepository
}

// NewGormLedger creates a new GormLedger
func NewGormLedger(batches inventory.StockBatchRepository, reservations inventory.ReservationRepository) *GormLedger {
	return &GormLedger{batches: batches, reservations: reservations}
}

// NewGormLedgerForDB creates a GormLedger with repositories bound to db
func NewGormLedgerForDB(db *gorm.DB) *GormLedger {
	return NewGormLedger(NewGormStockBatchRepository(db), NewGormReservationRepository(db))
}

// Reserve places a soft hold for every line using the given allocation method
func (l *GormLedger) Reserve(ctx context.Context, orderID, warehouseID uuid.UUID, lines []inventory.ReservationLine, method inventory.Method) ([]inventory.Reservation, error) {
	selector := batch.SelectorFor(method)
	reserved := make([]inventory.Reservation, 0, len(lines))

	for _, line := range lines {
		candidates, err := l.batches.FindByProduct(ctx, line.ProductID, warehouseID)
		if err != nil {
			return nil, err
		}

		allocations, err := selector.Select(candidates, line.Quantity, line.PreferBatch)
		if err != nil {
			return nil, err
		}

		for _, alloc := range allocations {
			b := findBatch(candidates, alloc.BatchNumber)
			if b == nil {
				return nil, shared.NewDomainError("BATCH_NOT_FOUND", "Allocated batch disappeared during reservation")
			}
			if err := b.Reserve(alloc.Quantity); err != nil {
				return nil, err
			}
			if err := l.batches.Save(ctx, b); err != nil {
				return nil, err
			}

			res := inventory.NewReservation(orderID, line.ProductID, warehouseID, alloc.BatchNumber, alloc.Quantity, method)
			if err := l.reservations.Save(ctx, res); err != nil {
				return nil, err
			}
			reserved = append(reserved, *res)
		}
	}

	return reserved, nil
}

// Release returns all outstanding reservations for the order to available
// stock. Orders that hold no reservations release nothing.
func (l *GormLedger) Release(ctx context.Context, orderID uuid.UUID) error {
	active, err := l.reservations.FindActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for i := range active {
		res := &active[i]
		b, err := l.batches.FindByBatchNumber(ctx, res.ProductID, res.WarehouseID, res.BatchNumber)
		if err != nil {
			return err
		}
		if err := b.Release(res.Quantity); err != nil {
			return err
		}
		if err := l.batches.Save(ctx, b); err != nil {
			return err
		}

		res.Release()
		if err := l.reservations.Save(ctx, res); err != nil {
			return err
		}
	}

	return nil
}

// Debit converts all outstanding reservations for the order into stock debits
func (l *GormLedger) Debit(ctx context.Context, orderID uuid.UUID) error {
	active, err := l.reservations.FindActiveByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for i := range active {
		res := &active[i]
		b, err := l.batches.FindByBatchNumber(ctx, res.ProductID, res.WarehouseID, res.BatchNumber)
		if err != nil {
			return err
		}
		if err := b.Debit(res.Quantity); err != nil {
			return err
		}
		if err := l.batches.Save(ctx, b); err != nil {
			return err
		}

		res.Consume()
		if err := l.reservations.Save(ctx, res); err != nil {
			return err
		}
	}

	return nil
}

// Credit adds stock back into a warehouse batch, creating the batch when the
// returned goods arrive under a batch number not currently on hand.
func (l *GormLedger) Credit(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string, quantity decimal.Decimal) error {
	b, err := l.batches.FindByBatchNumber(ctx, productID, warehouseID, batchNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			created, createErr := inventory.NewStockBatch(productID, warehouseID, batchNumber, quantity, nil, time.Now())
			if createErr != nil {
				return createErr
			}
			return l.batches.Save(ctx, created)
		}
		return err
	}

	if err := b.Credit(quantity); err != nil {
		return err
	}
	return l.batches.Save(ctx, b)
}

// Availability reports the aggregated stock position for a product
func (l *GormLedger) Availability(ctx context.Context, productID, warehouseID uuid.UUID) (*inventory.Availability, error) {
	batches, err := l.batches.FindByProduct(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	avail := &inventory.Availability{
		ProductID:   productID,
		WarehouseID: warehouseID,
		OnHand:      decimal.Zero,
		Reserved:    decimal.Zero,
		Available:   decimal.Zero,
	}
	for i := range batches {
		avail.OnHand = avail.OnHand.Add(batches[i].OnHand)
		avail.Reserved = avail.Reserved.Add(batches[i].Reserved)
		avail.Available = avail.Available.Add(batches[i].Available())
	}

	return avail, nil
}

func findBatch(batches []inventory.StockBatch, batchNumber string) *inventory.StockBatch {
	for i := range batches {
		if batches[i].BatchNumber == batchNumber {
			return &batches[i]
		}
	}
	return nil
}

// Ensure GormLedger implements inventory.Ledger
var _ inventory.Ledger = (*GormLedger)(nil)
