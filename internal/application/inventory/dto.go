package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockResponse is the display shape of a variant's stock level
type StockResponse struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Stock     decimal.Decimal `json:"stock"`
	Cached    bool            `json:"cached"`
}

// CorrectionRequest is the request for a manual stock correction
type CorrectionRequest struct {
	QuantityChange decimal.Decimal `json:"quantity_change" binding:"required"`
	UserID         uuid.UUID       `json:"user_id" binding:"required"`
}

// AdjustmentResponse is the API shape of one adjustment record
type AdjustmentResponse struct {
	ID             uuid.UUID       `json:"id"`
	VariantID      uuid.UUID       `json:"variant_id"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	Reason         string          `json:"reason"`
	ReferenceType  string          `json:"reference_type"`
	ReferenceID    uuid.UUID       `json:"reference_id"`
	AdjustedBy     uuid.UUID       `json:"adjusted_by"`
	AdjustedAt     time.Time       `json:"adjusted_at"`
}

// LotResponse is the API shape of one inventory lot
type LotResponse struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Remaining   decimal.Decimal `json:"remaining"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToAdjustmentResponse converts a domain adjustment to its API shape
func ToAdjustmentResponse(adj *inventory.Adjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:             adj.ID,
		VariantID:      adj.VariantID,
		LotID:          adj.LotID,
		QuantityChange: adj.QuantityChange,
		Reason:         string(adj.Reason),
		ReferenceType:  string(adj.ReferenceType),
		ReferenceID:    adj.ReferenceID,
		AdjustedBy:     adj.AdjustedBy,
		AdjustedAt:     adj.AdjustedAt,
	}
}
