package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormAdjustmentRepository implements AdjustmentRepository using GORM.
// The adjustment log is append-only: the repository exposes no update or
// delete operations.
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByVariant returns all adjustments for a variant in application order
func (r *GormAdjustmentRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	if err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("adjusted_at asc").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// FindByReference returns the adjustments produced by one causing entity
func (r *GormAdjustmentRepository) FindByReference(ctx context.Context, referenceType inventory.ReferenceType, referenceID uuid.UUID) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("adjusted_at asc").
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Append inserts new adjustment records
func (r *GormAdjustmentRepository) Append(ctx context.Context, adjustments []inventory.Adjustment) error {
	if len(adjustments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&adjustments).Error
}

// Ensure GormAdjustmentRepository implements AdjustmentRepository
var _ inventory.AdjustmentRepository = (*GormAdjustmentRepository)(nil)
