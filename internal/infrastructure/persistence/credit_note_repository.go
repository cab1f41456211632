package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pharmadist/backend/internal/domain/returns"
	"github.com/pharmadist/backend/internal/domain/shared"
	"github.com/pharmadist/backend/internal/infrastructure/persistence/models"
)

// GormCreditNoteRepository implements returns.CreditNoteRepository using GORM
type GormCreditNoteRepository struct {
	db *gorm.DB
}

// NewGormCreditNoteRepository creates a new GormCreditNoteRepository
func NewGormCreditNoteRepository(db *gorm.DB) *GormCreditNoteRepository {
	return &GormCreditNoteRepository{db: db}
}

// FindByID finds a credit note by its ID
func (r *GormCreditNoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReturn finds the credit note for a return, if any
func (r *GormCreditNoteRepository) FindByReturn(ctx context.Context, returnID uuid.UUID) (*returns.CreditNote, error) {
	var model models.CreditNoteModel
	if err := r.db.WithContext(ctx).
		Where("return_id = ?", returnID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByReturn reports whether a credit note exists for the return
func (r *GormCreditNoteRepository) ExistsByReturn(ctx context.Context, returnID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditNoteModel{}).
		Where("return_id = ?", returnID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumApprovedByOrder sums unsettled credit note amounts for an order
func (r *GormCreditNoteRepository) SumApprovedByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.Decimal
	if err := r.db.WithContext(ctx).
		Model(&models.CreditNoteModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("order_id = ? AND status = ?", orderID, returns.CreditNoteStatusIssued).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// Save creates or updates a credit note. The unique index on return_id makes
// a duplicate insert fail even if two requests race past ExistsByReturn.
func (r *GormCreditNoteRepository) Save(ctx context.Context, cn *returns.CreditNote) error {
	var model models.CreditNoteModel
	model.FromDomain(cn)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Ensure GormCreditNoteRepository implements returns.CreditNoteRepository
var _ returns.CreditNoteRepository = (*GormCreditNoteRepository)(nil)
