package trade

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DistributeDiscount splits a single invoice-level discount across the
// lines proportionally to each line's share of the gross total. The last
// line absorbs the rounding remainder so the distributed shares always sum
// to the input discount exactly.
func DistributeDiscount(lineGross []decimal.Decimal, discount decimal.Decimal) ([]decimal.Decimal, error) {
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	shares := make([]decimal.Decimal, len(lineGross))
	for i := range shares {
		shares[i] = decimal.Zero
	}
	if discount.IsZero() || len(lineGross) == 0 {
		if discount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "Cannot discount an empty invoice")
		}
		return shares, nil
	}

	total := decimal.Zero
	for _, gross := range lineGross {
		if gross.IsNegative() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Line amount cannot be negative")
		}
		total = total.Add(gross)
	}
	if discount.GreaterThan(total) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the invoice total")
	}
	if total.IsZero() {
		return shares, nil
	}

	distributed := decimal.Zero
	for i, gross := range lineGross {
		if i == len(lineGross)-1 {
			shares[i] = discount.Sub(distributed)
			break
		}
		share := discount.Mul(gross).Div(total).Round(2)
		shares[i] = share
		distributed = distributed.Add(share)
	}

	return shares, nil
}
