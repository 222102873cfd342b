package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Ledger computes stock and plans FIFO mutations. It is pure: it works on
// lots and adjustments the caller has already loaded, so the caller can
// run the read, the plan and the append inside one database transaction.
type Ledger struct{}

// NewLedger creates a new inventory ledger
func NewLedger() *Ledger {
	return &Ledger{}
}

// ComputeStock folds the full history into the current stock level:
// the sum of all lot quantities plus every counting adjustment.
// Recomputing over the same history is idempotent by construction.
func (l *Ledger) ComputeStock(lots []Lot, adjustments []Adjustment) decimal.Decimal {
	stock := decimal.Zero
	for i := range lots {
		stock = stock.Add(lots[i].Quantity)
	}
	for i := range adjustments {
		if adjustments[i].CountsTowardStock() {
			stock = stock.Add(adjustments[i].QuantityChange)
		}
	}
	return stock
}

// LotRemaining returns how much of one lot is still undrained:
// the original quantity plus all counting adjustments against the lot.
func (l *Ledger) LotRemaining(lot *Lot, adjustments []Adjustment) decimal.Decimal {
	remaining := lot.Quantity
	for i := range adjustments {
		adj := &adjustments[i]
		if adj.LotID == nil || *adj.LotID != lot.ID {
			continue
		}
		if adj.CountsTowardStock() {
			remaining = remaining.Add(adj.QuantityChange)
		}
	}
	return remaining
}

// Consume plans a FIFO consumption of quantity from the variant's lots and
// returns the adjustment records to append: oldest lot first, one negative
// adjustment per lot touched. Returns ErrInsufficientStock when the total
// remaining across all lots cannot cover the request; the caller must hold
// the enclosing transaction open across its stock read and this append so
// two concurrent sales cannot both pass the check against stale stock.
func (l *Ledger) Consume(
	lots []Lot,
	adjustments []Adjustment,
	quantity decimal.Decimal,
	reason AdjustmentReason,
	referenceType ReferenceType,
	referenceID uuid.UUID,
	adjustedBy uuid.UUID,
) ([]Adjustment, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}

	ordered := make([]Lot, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	type draw struct {
		lotID     uuid.UUID
		variantID uuid.UUID
		quantity  decimal.Decimal
	}

	needed := quantity
	draws := make([]draw, 0)

	for i := range ordered {
		if needed.IsZero() {
			break
		}
		remaining := l.LotRemaining(&ordered[i], adjustments)
		if remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}

		take := decimal.Min(remaining, needed)
		draws = append(draws, draw{lotID: ordered[i].ID, variantID: ordered[i].VariantID, quantity: take})
		needed = needed.Sub(take)
	}

	if needed.GreaterThan(decimal.Zero) {
		return nil, shared.ErrInsufficientStock
	}

	result := make([]Adjustment, 0, len(draws))
	for _, d := range draws {
		lotID := d.lotID
		adj, err := NewAdjustment(
			d.variantID,
			&lotID,
			d.quantity.Neg(),
			reason,
			referenceType,
			referenceID,
			adjustedBy,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, *adj)
	}
	return result, nil
}

// Restore plans the re-credit of a prior consumption: the same lots the
// reference originally drained get their stock back, in the same
// proportions, so a returned unit lands in the lot it came from and keeps
// its cost basis for future consumption. A full restore mirrors the
// consumption exactly; a partial restore splits proportionally with the
// last lot absorbing the rounding remainder.
func (l *Ledger) Restore(
	consumed []Adjustment,
	quantity decimal.Decimal,
	reason AdjustmentReason,
	referenceType ReferenceType,
	referenceID uuid.UUID,
	adjustedBy uuid.UUID,
) ([]Adjustment, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}

	totalConsumed := decimal.Zero
	for i := range consumed {
		if consumed[i].QuantityChange.IsNegative() {
			totalConsumed = totalConsumed.Add(consumed[i].QuantityChange.Neg())
		}
	}
	if totalConsumed.IsZero() {
		return nil, shared.NewDomainError("NOTHING_TO_RESTORE", "Reference has no consumption to restore")
	}
	if quantity.GreaterThan(totalConsumed) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Cannot restore more than was consumed")
	}

	result := make([]Adjustment, 0, len(consumed))
	credited := decimal.Zero
	drains := make([]*Adjustment, 0, len(consumed))
	for i := range consumed {
		if consumed[i].QuantityChange.IsNegative() {
			drains = append(drains, &consumed[i])
		}
	}

	for i, drain := range drains {
		var credit decimal.Decimal
		if i == len(drains)-1 {
			credit = quantity.Sub(credited)
		} else {
			drained := drain.QuantityChange.Neg()
			credit = quantity.Mul(drained).Div(totalConsumed).Round(4)
			credited = credited.Add(credit)
		}
		if credit.LessThanOrEqual(decimal.Zero) {
			continue
		}

		adj, err := NewAdjustment(
			drain.VariantID,
			drain.LotID,
			credit,
			reason,
			referenceType,
			referenceID,
			adjustedBy,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, *adj)
	}

	return result, nil
}
