package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pharmadist/backend/internal/domain/order"
	"github.com/pharmadist/backend/internal/infrastructure/persistence/models"
)

// GormStatusHistoryRepository implements order.StatusHistoryRepository using
// GORM. The table is append-only: Create is the only write path.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GormStatusHistoryRepository
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Append writes one history entry
func (r *GormStatusHistoryRepository) Append(ctx context.Context, entry *order.StatusHistoryEntry) error {
	var model models.StatusHistoryModel
	model.FromDomain(entry)
	return r.db.WithContext(ctx).Create(&model).Error
}

// FindByOrder returns all entries for an order ordered by time ascending
func (r *GormStatusHistoryRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusHistoryEntry, error) {
	var list []models.StatusHistoryModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	entries := make([]order.StatusHistoryEntry, len(list))
	for i := range list {
		entries[i] = *list[i].ToDomain()
	}
	return entries, nil
}

// CountByOrder counts entries for an order
func (r *GormStatusHistoryRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StatusHistoryModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormStatusHistoryRepository implements order.StatusHistoryRepository
var _ order.StatusHistoryRepository = (*GormStatusHistoryRepository)(nil)
