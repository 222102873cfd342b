package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// VariantInfo is the catalog data a sale freezes onto its lines
type VariantInfo struct {
	VariantID     uuid.UUID
	Price         decimal.Decimal
	Cost          decimal.Decimal
	TaxCategoryID *uuid.UUID
}

// CatalogLookup resolves variant pricing from the catalog context.
// Implementations return shared.ErrReferenceNotFound for unknown variants.
type CatalogLookup interface {
	FindVariant(ctx context.Context, variantID uuid.UUID) (*VariantInfo, error)
}

// CustomerLookup resolves customers for tax exemption checks. A nil
// customer result with nil error means no customer is attached.
type CustomerLookup interface {
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*tax.Customer, error)
}

// PaymentMethodValidator checks that a payment method exists and is usable.
// Implementations return shared.ErrReferenceNotFound for unknown methods.
type PaymentMethodValidator interface {
	Validate(ctx context.Context, paymentMethodID uuid.UUID) error
}

// StockGate answers the cheap read-only availability pre-check before a
// sale transaction opens. The authoritative check always repeats inside
// the transaction.
type StockGate interface {
	CheckAvailability(ctx context.Context, variantID uuid.UUID, quantity decimal.Decimal) error
}

// StockCacheInvalidator drops cached stock snapshots for variants whose
// stock a trade operation changed. The cache is advisory, so failures are
// ignored; the next display read recomputes the fold.
type StockCacheInvalidator interface {
	Invalidate(ctx context.Context, variantID uuid.UUID) error
}

// invalidateStock drops the cached stock for each variant, best effort
func invalidateStock(ctx context.Context, cache StockCacheInvalidator, variantIDs []uuid.UUID) {
	if cache == nil {
		return
	}
	seen := make(map[uuid.UUID]struct{}, len(variantIDs))
	for _, variantID := range variantIDs {
		if _, dup := seen[variantID]; dup {
			continue
		}
		seen[variantID] = struct{}{}
		_ = cache.Invalidate(ctx, variantID)
	}
}
