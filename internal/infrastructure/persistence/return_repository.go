package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return by its ID with its items
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindBySale returns all returns recorded against a sale
func (r *GormReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]trade.Return, error) {
	var returns []trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_id = ?", saleID).
		Order("created_at asc").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Save creates or updates a return together with its items
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(ret).Error; err != nil {
			return err
		}
		for i := range ret.Items {
			ret.Items[i].ReturnID = ret.ID
			if err := tx.Save(&ret.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormReturnRepository implements ReturnRepository
var _ trade.ReturnRepository = (*GormReturnRepository)(nil)
