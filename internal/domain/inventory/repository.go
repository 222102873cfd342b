package inventory

import (
	"context"

	"github.com/google/uuid"
)

// LotRepository manages inventory lot persistence. Lots are created by
// purchase receiving and never mutated afterwards.
type LotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	// FindByVariant returns all lots for a variant ordered by creation
	// time ascending (FIFO order).
	FindByVariant(ctx context.Context, variantID uuid.UUID) ([]Lot, error)
	Save(ctx context.Context, lot *Lot) error
}

// AdjustmentRepository manages the append-only adjustment log.
// There is deliberately no update or delete.
type AdjustmentRepository interface {
	FindByVariant(ctx context.Context, variantID uuid.UUID) ([]Adjustment, error)
	// FindByReference returns the adjustments a single causing entity
	// produced, e.g. every lot drain belonging to one sale.
	FindByReference(ctx context.Context, referenceType ReferenceType, referenceID uuid.UUID) ([]Adjustment, error)
	Append(ctx context.Context, adjustments []Adjustment) error
}
