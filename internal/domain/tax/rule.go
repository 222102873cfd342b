package tax

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RuleScope determines whether a rule applies per line item or once per invoice
type RuleScope string

const (
	RuleScopeItem    RuleScope = "ITEM"
	RuleScopeInvoice RuleScope = "INVOICE"
)

// IsValid checks if the scope is a valid RuleScope
func (s RuleScope) IsValid() bool {
	return s == RuleScopeItem || s == RuleScopeInvoice
}

// Rule represents a single tax rule belonging to a profile.
// A nil CategoryID means the rule applies to all categories. MinPrice and
// MaxPrice bound the taxable base; a nil bound is unbounded. Compound rules
// tax the running subtotal including previously applied taxes.
type Rule struct {
	shared.BaseEntity
	ProfileID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	Name        string           `gorm:"type:varchar(100);not null"`
	Scope       RuleScope        `gorm:"type:varchar(20);not null"`
	RatePercent decimal.Decimal  `gorm:"type:decimal(9,4);not null"`
	Priority    int              `gorm:"not null;default:0"`
	IsCompound  bool             `gorm:"not null;default:false"`
	MinPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	MaxPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (Rule) TableName() string {
	return "tax_rules"
}

// NewRule creates a new tax rule
func NewRule(profileID uuid.UUID, name string, scope RuleScope, ratePercent decimal.Decimal, priority int) (*Rule, error) {
	if profileID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROFILE", "Profile ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	if !scope.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Rule scope must be ITEM or INVOICE")
	}
	if ratePercent.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rate percent cannot be negative")
	}

	return &Rule{
		BaseEntity:  shared.NewBaseEntity(),
		ProfileID:   profileID,
		Name:        name,
		Scope:       scope,
		RatePercent: ratePercent,
		Priority:    priority,
	}, nil
}

// ScopeToCategory restricts the rule to a single tax category
func (r *Rule) ScopeToCategory(categoryID uuid.UUID) {
	r.CategoryID = &categoryID
}

// SetPriceBand sets the price band the rule applies within.
// A nil bound leaves that side unbounded.
func (r *Rule) SetPriceBand(minPrice, maxPrice *decimal.Decimal) error {
	if minPrice != nil && maxPrice != nil && minPrice.GreaterThan(*maxPrice) {
		return shared.NewDomainError("INVALID_PRICE_BAND", "Min price cannot exceed max price")
	}
	r.MinPrice = minPrice
	r.MaxPrice = maxPrice
	return nil
}

// MarkCompound makes the rule compound: it taxes the running subtotal
// including previously applied taxes, not just the pre-tax price.
func (r *Rule) MarkCompound() {
	r.IsCompound = true
}

// MatchesCategory returns true if the rule applies to the given category.
// A rule without a category matches every item.
func (r *Rule) MatchesCategory(categoryID *uuid.UUID) bool {
	if r.CategoryID == nil {
		return true
	}
	return categoryID != nil && *r.CategoryID == *categoryID
}

// MatchesPrice returns true if the given pre-tax price falls within the
// rule's price band. Missing bounds are unbounded.
func (r *Rule) MatchesPrice(price decimal.Decimal) bool {
	if r.MinPrice != nil && price.LessThan(*r.MinPrice) {
		return false
	}
	if r.MaxPrice != nil && price.GreaterThan(*r.MaxPrice) {
		return false
	}
	return true
}
