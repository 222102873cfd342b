package persistence

import (
	"context"

	"github.com/google/uuid"
	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockGate answers the read-only availability pre-check before a sale
// transaction opens. It folds the adjustment history outside any
// transaction, so its answer can go stale; the sale transaction repeats
// the check authoritatively before drawing stock.
type GormStockGate struct {
	db     *gorm.DB
	ledger *inventory.Ledger
}

// NewGormStockGate creates a new GormStockGate
func NewGormStockGate(db *gorm.DB) *GormStockGate {
	return &GormStockGate{db: db, ledger: inventory.NewLedger()}
}

// CheckAvailability reports whether the variant's current stock covers the
// requested quantity
func (g *GormStockGate) CheckAvailability(ctx context.Context, variantID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	lots, err := NewGormLotRepository(g.db).FindByVariant(ctx, variantID)
	if err != nil {
		return err
	}
	adjustments, err := NewGormAdjustmentRepository(g.db).FindByVariant(ctx, variantID)
	if err != nil {
		return err
	}

	if g.ledger.ComputeStock(lots, adjustments).LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Ensure GormStockGate implements StockGate
var _ apptrade.StockGate = (*GormStockGate)(nil)
