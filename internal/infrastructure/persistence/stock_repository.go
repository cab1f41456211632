package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmadist/backend/internal/domain/inventory"
	"github.com/pharmadist/backend/internal/domain/shared"
)

// GormStockBatchRepository implements inventory.StockBatchRepository using
// GORM. Stock entities persist directly; batch rows never leave the
// inventory bounded context so no separate model is kept for them.
type GormStockBatchRepository struct {
	db *gorm.DB
}

// NewGormStockBatchRepository creates a new GormStockBatchRepository
func NewGormStockBatchRepository(db *gorm.DB) *GormStockBatchRepository {
	return &GormStockBatchRepository{db: db}
}

// FindByProduct returns all batches for a product in a warehouse
func (r *GormStockBatchRepository) FindByProduct(ctx context.Context, productID, warehouseID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Order("received_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByBatchNumber returns one batch by its identity
func (r *GormStockBatchRepository) FindByBatchNumber(ctx context.Context, productID, warehouseID uuid.UUID, batchNumber string) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ? AND batch_number = ?", productID, warehouseID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// Save creates or updates a batch
func (r *GormStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// GormReservationRepository implements inventory.ReservationRepository
type GormReservationRepository struct {
	db *gorm.DB
}

// NewGormReservationRepository creates a new GormReservationRepository
func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

// FindActiveByOrder returns all active reservations for an order
func (r *GormReservationRepository) FindActiveByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.Reservation, error) {
	var reservations []inventory.Reservation
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND released = ? AND consumed = ?", orderID, false, false).
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Save creates or updates a reservation
func (r *GormReservationRepository) Save(ctx context.Context, res *inventory.Reservation) error {
	return r.db.WithContext(ctx).Save(res).Error
}

// Ensure the repositories implement their interfaces
var (
	_ inventory.StockBatchRepository  = (*GormStockBatchRepository)(nil)
	_ inventory.ReservationRepository = (*GormReservationRepository)(nil)
)
