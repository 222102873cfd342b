package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Lot represents one received batch of stock with its own cost basis.
// Quantity is the original received quantity and never changes; stock is
// drained from a lot only through adjustments referencing it.
type Lot struct {
	shared.BaseEntity
	VariantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber         string          `gorm:"type:varchar(100)"`
	ManufacturedDate    *time.Time
	ExpiryDate          *time.Time
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PurchaseOrderItemID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "inventory_lots"
}

// NewLot creates a new inventory lot
func NewLot(variantID uuid.UUID, quantity, unitCost decimal.Decimal) (*Lot, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Lot quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &Lot{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		Quantity:   quantity,
		UnitCost:   unitCost,
	}, nil
}

// SetBatchInfo attaches batch metadata to the lot
func (l *Lot) SetBatchInfo(batchNumber string, manufacturedDate, expiryDate *time.Time) {
	l.BatchNumber = batchNumber
	l.ManufacturedDate = manufacturedDate
	l.ExpiryDate = expiryDate
}

// LinkPurchaseOrderItem records which purchase order item produced this lot
func (l *Lot) LinkPurchaseOrderItem(itemID uuid.UUID) {
	l.PurchaseOrderItemID = &itemID
}

// IsExpired returns true if the lot has expired
func (l *Lot) IsExpired() bool {
	if l.ExpiryDate == nil {
		return false
	}
	return l.ExpiryDate.Before(time.Now())
}

// TotalValue returns the original value of this lot at its cost basis
func (l *Lot) TotalValue() decimal.Decimal {
	return l.Quantity.Mul(l.UnitCost)
}
