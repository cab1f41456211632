package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmadist/backend/internal/domain/returns"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/infrastructure/persistence/models"
)

// GormReturnRepository implements returns.Repository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.Return, error) {
	var model models.ReturnModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds all returns for an order, newest first
func (r *GormReturnRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]returns.Return, error) {
	var list []models.ReturnModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}

	result := make([]returns.Return, len(list))
	for i := range list {
		result[i] = *list[i].ToDomain()
	}
	return result, nil
}

// SumActiveQuantity sums the quantity of all non-rejected returns for a
// product on an order
func (r *GormReturnRepository) SumActiveQuantity(ctx context.Context, orderID, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.ReturnModel{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("order_id = ? AND product_id = ? AND status != ?", orderID, productID, returns.StatusRejected).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates or updates a return
func (r *GormReturnRepository) Save(ctx context.Context, ret *returns.Return) error {
	var model models.ReturnModel
	model.FromDomain(ret)
	return r.db.WithContext(ctx).Save(&model).Error
}

// SaveWithLock saves with an optimistic version check
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *returns.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&models.ReturnModel{}).
			Where("id = ?", ret.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		if currentVersion != ret.Version {
			return shared.ErrConcurrencyConflict
		}

		ret.Version++
		ret.UpdatedAt = time.Now()

		var model models.ReturnModel
		model.FromDomain(ret)

		result := tx.Model(&models.ReturnModel{}).
			Where("id = ? AND version = ?", ret.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":           model.Status,
				"approved_at":      model.ApprovedAt,
				"approved_by":      model.ApprovedBy,
				"rejected_at":      model.RejectedAt,
				"rejected_by":      model.RejectedBy,
				"rejection_reason": model.RejectionReason,
				"processed_at":     model.ProcessedAt,
				"completed_at":     model.CompletedAt,
				"version":          model.Version,
				"updated_at":       model.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Ensure GormReturnRepository implements returns.Repository
var _ returns.Repository = (*GormReturnRepository)(nil)
