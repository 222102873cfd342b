package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentReason classifies why stock moved
type AdjustmentReason string

const (
	ReasonSale           AdjustmentReason = "sale"
	ReasonCancellation   AdjustmentReason = "cancellation"
	ReasonReturn         AdjustmentReason = "return"
	ReasonCorrection     AdjustmentReason = "correction"
	ReasonConfirmReceive AdjustmentReason = "confirm_receive"
)

// IsValid checks if the reason is a known AdjustmentReason
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonSale, ReasonCancellation, ReasonReturn, ReasonCorrection, ReasonConfirmReceive:
		return true
	}
	return false
}

// ReferenceType names the kind of entity that caused an adjustment
type ReferenceType string

const (
	ReferenceSale          ReferenceType = "sale"
	ReferencePurchaseOrder ReferenceType = "purchase_order"
	ReferenceReturn        ReferenceType = "return"
	ReferenceManual        ReferenceType = "manual"
)

// Adjustment is one append-only stock mutation record. The adjustment
// history is the audit trail: rows are never updated or deleted, and
// current stock is always a fold over lots plus adjustments.
//
// LotID is nil for mutations that are not lot-specific (manual
// corrections); every FIFO consumption and restore references the lot it
// touched.
type Adjustment struct {
	shared.BaseEntity
	VariantID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	LotID          *uuid.UUID       `gorm:"type:uuid;index"`
	QuantityChange decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Reason         AdjustmentReason `gorm:"type:varchar(30);not null"`
	ReferenceType  ReferenceType    `gorm:"type:varchar(30);not null;index:idx_adjustments_reference"`
	ReferenceID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_adjustments_reference"`
	AdjustedBy     uuid.UUID        `gorm:"type:uuid;not null"`
	AdjustedAt     time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "inventory_adjustments"
}

// NewAdjustment creates a new stock adjustment record
func NewAdjustment(
	variantID uuid.UUID,
	lotID *uuid.UUID,
	quantityChange decimal.Decimal,
	reason AdjustmentReason,
	referenceType ReferenceType,
	referenceID uuid.UUID,
	adjustedBy uuid.UUID,
) (*Adjustment, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantityChange.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown adjustment reason")
	}

	return &Adjustment{
		BaseEntity:     shared.NewBaseEntity(),
		VariantID:      variantID,
		LotID:          lotID,
		QuantityChange: quantityChange,
		Reason:         reason,
		ReferenceType:  referenceType,
		ReferenceID:    referenceID,
		AdjustedBy:     adjustedBy,
		AdjustedAt:     time.Now(),
	}, nil
}

// CountsTowardStock reports whether this adjustment contributes to the
// stock fold. A confirm_receive adjustment that references a lot exists
// for the audit trail only - the lot itself already carries the received
// quantity, so counting both would double the stock.
func (a *Adjustment) CountsTowardStock() bool {
	return a.Reason != ReasonConfirmReceive || a.LotID == nil
}
