package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/tax"
	"gorm.io/gorm"
)

// GormTaxProfileRepository implements ProfileRepository using GORM
type GormTaxProfileRepository struct {
	db *gorm.DB
}

// NewGormTaxProfileRepository creates a new GormTaxProfileRepository
func NewGormTaxProfileRepository(db *gorm.DB) *GormTaxProfileRepository {
	return &GormTaxProfileRepository{db: db}
}

// FindByID finds a tax profile by its ID
func (r *GormTaxProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.Profile, error) {
	var profile tax.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// FindActive returns the single active profile, or nil when none is active
func (r *GormTaxProfileRepository) FindActive(ctx context.Context) (*tax.Profile, error) {
	var profile tax.Profile
	if err := r.db.WithContext(ctx).First(&profile, "is_active = ?", true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindAll returns all tax profiles
func (r *GormTaxProfileRepository) FindAll(ctx context.Context) ([]tax.Profile, error) {
	var profiles []tax.Profile
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save creates or updates a tax profile
func (r *GormTaxProfileRepository) Save(ctx context.Context, profile *tax.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// DeactivateAll clears the active flag on every profile
func (r *GormTaxProfileRepository) DeactivateAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&tax.Profile{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}

// Ensure GormTaxProfileRepository implements ProfileRepository
var _ tax.ProfileRepository = (*GormTaxProfileRepository)(nil)

// GormTaxCategoryRepository implements CategoryRepository using GORM
type GormTaxCategoryRepository struct {
	db *gorm.DB
}

// NewGormTaxCategoryRepository creates a new GormTaxCategoryRepository
func NewGormTaxCategoryRepository(db *gorm.DB) *GormTaxCategoryRepository {
	return &GormTaxCategoryRepository{db: db}
}

// FindByID finds a tax category by its ID
func (r *GormTaxCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.Category, error) {
	var category tax.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns all tax categories
func (r *GormTaxCategoryRepository) FindAll(ctx context.Context) ([]tax.Category, error) {
	var categories []tax.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a tax category
func (r *GormTaxCategoryRepository) Save(ctx context.Context, category *tax.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Ensure GormTaxCategoryRepository implements CategoryRepository
var _ tax.CategoryRepository = (*GormTaxCategoryRepository)(nil)

// GormTaxRuleRepository implements RuleRepository using GORM
type GormTaxRuleRepository struct {
	db *gorm.DB
}

// NewGormTaxRuleRepository creates a new GormTaxRuleRepository
func NewGormTaxRuleRepository(db *gorm.DB) *GormTaxRuleRepository {
	return &GormTaxRuleRepository{db: db}
}

// FindByID finds a tax rule by its ID
func (r *GormTaxRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*tax.Rule, error) {
	var rule tax.Rule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByProfile returns all rules belonging to a profile. Equal-priority
// rules tie-break by creation order, which the compute pipeline relies on.
func (r *GormTaxRuleRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]tax.Rule, error) {
	var rules []tax.Rule
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("priority asc, created_at asc").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a tax rule
func (r *GormTaxRuleRepository) Save(ctx context.Context, rule *tax.Rule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes a tax rule
func (r *GormTaxRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tax.Rule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormTaxRuleRepository implements RuleRepository
var _ tax.RuleRepository = (*GormTaxRuleRepository)(nil)
