package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// Profile represents a named set of tax rules, e.g. one region's tax regime.
// At most one profile is active at a time; activation is enforced by the
// application layer, not by a database constraint.
type Profile struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	IsActive    bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "tax_profiles"
}

// NewProfile creates a new tax profile
func NewProfile(name, description string) (*Profile, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Profile name cannot be empty")
	}
	return &Profile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Activate marks this profile as the active one
func (p *Profile) Activate() {
	p.IsActive = true
	p.UpdatedAt = time.Now()
}

// Deactivate marks this profile as inactive
func (p *Profile) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
}

// Category groups products for tax purposes (e.g. food, luxury goods).
// A rule scoped to a nil category applies to all categories.
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "tax_categories"
}

// NewCategory creates a new tax category
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
	}, nil
}

// CustomerType classifies customers for tax treatment
type CustomerType string

const (
	CustomerTypeRegular CustomerType = "regular"
	CustomerTypeExempt  CustomerType = "exempt"
)

// Customer carries the minimal customer data the engine needs.
// An exempt customer short-circuits the whole invoice to zero tax.
type Customer struct {
	ID   uuid.UUID
	Type CustomerType
}

// IsExempt returns true if the customer is tax exempt
func (c *Customer) IsExempt() bool {
	return c != nil && c.Type == CustomerTypeExempt
}
