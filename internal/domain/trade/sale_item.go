package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItem is one line of a sale. PricePerUnit and CostPerUnit are frozen
// at sale time and never recomputed from the catalog; TaxRuleSnapshot holds
// the serialized rule applications so the tax computation can be audited
// after the rule set changes.
type SaleItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PricePerUnit     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPerUnit      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate          decimal.Decimal `gorm:"type:decimal(9,4);not null"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRuleSnapshot  string          `gorm:"type:text"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a new sale line with frozen price and cost
func NewSaleItem(saleID, variantID uuid.UUID, quantity, pricePerUnit, costPerUnit decimal.Decimal) (*SaleItem, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricePerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price per unit cannot be negative")
	}
	if costPerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}

	now := time.Now()
	return &SaleItem{
		ID:               uuid.New(),
		SaleID:           saleID,
		VariantID:        variantID,
		Quantity:         quantity,
		PricePerUnit:     pricePerUnit,
		CostPerUnit:      costPerUnit,
		TaxRate:          decimal.Zero,
		TaxAmount:        decimal.Zero,
		DiscountAmount:   decimal.Zero,
		ReturnedQuantity: decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// GrossAmount returns quantity * price before discount and tax
func (i *SaleItem) GrossAmount() decimal.Decimal {
	return i.Quantity.Mul(i.PricePerUnit)
}

// DiscountedAmount returns the line base after discount, clamped at zero
func (i *SaleItem) DiscountedAmount() decimal.Decimal {
	amount := i.GrossAmount().Sub(i.DiscountAmount)
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// NetAmount returns the discounted base plus tax
func (i *SaleItem) NetAmount() decimal.Decimal {
	return i.DiscountedAmount().Add(i.TaxAmount)
}

// ApplyDiscount sets the line's share of the invoice-level discount
func (i *SaleItem) ApplyDiscount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	i.DiscountAmount = amount
	i.UpdatedAt = time.Now()
	return nil
}

// SetTax freezes the computed tax onto the line together with the rule
// trace that produced it.
func (i *SaleItem) SetTax(rate, amount decimal.Decimal, ruleSnapshot string) {
	i.TaxRate = rate
	i.TaxAmount = amount
	i.TaxRuleSnapshot = ruleSnapshot
	i.UpdatedAt = time.Now()
}

// ReturnableQuantity returns how much of the line can still be returned
func (i *SaleItem) ReturnableQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}

// RecordReturn accumulates a returned quantity against the line. Returned
// quantity can never exceed the original quantity.
func (i *SaleItem) RecordReturn(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if quantity.GreaterThan(i.ReturnableQuantity()) {
		return shared.ErrOverReturn
	}

	i.ReturnedQuantity = i.ReturnedQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	return nil
}
