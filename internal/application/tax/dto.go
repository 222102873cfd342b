package tax

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// CalculateTaxItemRequest is one line of a simulated invoice
type CalculateTaxItemRequest struct {
	Price         decimal.Decimal `json:"price" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	TaxCategoryID *uuid.UUID      `json:"tax_category_id,omitempty"`
}

// CalculateTaxRequest is a side-effect-free tax simulation request
type CalculateTaxRequest struct {
	Items      []CalculateTaxItemRequest `json:"items" binding:"required,min=1"`
	CustomerID *uuid.UUID                `json:"customer_id,omitempty"`
}

// CalculatedItemResponse is the per-line outcome of a simulation
type CalculatedItemResponse struct {
	LineAmount    decimal.Decimal       `json:"line_amount"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	EffectiveRate decimal.Decimal       `json:"effective_rate"`
	AppliedRules  []tax.RuleApplication `json:"applied_rules"`
}

// CalculateTaxResponse is the outcome of a tax simulation
type CalculateTaxResponse struct {
	Subtotal   decimal.Decimal          `json:"subtotal"`
	TotalTax   decimal.Decimal          `json:"total_tax"`
	GrandTotal decimal.Decimal          `json:"grand_total"`
	Items      []CalculatedItemResponse `json:"items"`
}

// CreateProfileRequest is the request to create a tax profile
type CreateProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ProfileResponse is the API shape of a tax profile
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
}

// CreateCategoryRequest is the request to create a tax category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryResponse is the API shape of a tax category
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// CreateRuleRequest is the request to create a tax rule
type CreateRuleRequest struct {
	ProfileID   uuid.UUID        `json:"profile_id" binding:"required"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Name        string           `json:"name" binding:"required"`
	Scope       string           `json:"scope" binding:"required"`
	RatePercent decimal.Decimal  `json:"rate_percent" binding:"required"`
	Priority    int              `json:"priority"`
	IsCompound  bool             `json:"is_compound"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
}

// RuleResponse is the API shape of a tax rule
type RuleResponse struct {
	ID          uuid.UUID        `json:"id"`
	ProfileID   uuid.UUID        `json:"profile_id"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	Name        string           `json:"name"`
	Scope       string           `json:"scope"`
	RatePercent decimal.Decimal  `json:"rate_percent"`
	Priority    int              `json:"priority"`
	IsCompound  bool             `json:"is_compound"`
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
}

// ToProfileResponse converts a domain profile to its API shape
func ToProfileResponse(profile *tax.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          profile.ID,
		Name:        profile.Name,
		Description: profile.Description,
		IsActive:    profile.IsActive,
	}
}

// ToCategoryResponse converts a domain category to its API shape
func ToCategoryResponse(category *tax.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}

// ToRuleResponse converts a domain rule to its API shape
func ToRuleResponse(rule *tax.Rule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID,
		ProfileID:   rule.ProfileID,
		CategoryID:  rule.CategoryID,
		Name:        rule.Name,
		Scope:       string(rule.Scope),
		RatePercent: rule.RatePercent,
		Priority:    rule.Priority,
		IsCompound:  rule.IsCompound,
		MinPrice:    rule.MinPrice,
		MaxPrice:    rule.MaxPrice,
	}
}
