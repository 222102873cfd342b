package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockCache is a display-only cache of derived stock levels. Stale reads
// are acceptable for display; authoritative checks inside mutations never
// consult it.
type StockCache interface {
	Get(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, bool, error)
	Set(ctx context.Context, variantID uuid.UUID, stock decimal.Decimal) error
	Invalidate(ctx context.Context, variantID uuid.UUID) error
}

// StockService answers stock queries and records manual corrections.
// Stock is always a fold over lots and adjustments; the cache only
// shortcuts the fold for display.
type StockService struct {
	scope  TransactionScope
	cache  StockCache
	ledger *inventory.Ledger
}

// NewStockService creates a new StockService. The cache may be nil, in
// which case every read recomputes the fold.
func NewStockService(scope TransactionScope, cache StockCache) *StockService {
	return &StockService{
		scope:  scope,
		cache:  cache,
		ledger: inventory.NewLedger(),
	}
}

// GetStock returns the variant's stock level for display, read through
// the cache when one is configured.
func (s *StockService) GetStock(ctx context.Context, variantID uuid.UUID) (*StockResponse, error) {
	if s.cache != nil {
		if stock, ok, err := s.cache.Get(ctx, variantID); err == nil && ok {
			return &StockResponse{VariantID: variantID, Stock: stock, Cached: true}, nil
		}
	}

	stock, err := s.computeStock(ctx, variantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Best effort; a failed cache write never fails the read
		_ = s.cache.Set(ctx, variantID, stock)
	}

	return &StockResponse{VariantID: variantID, Stock: stock}, nil
}

// CheckAvailability reports whether the variant currently covers the
// requested quantity. It recomputes the fold and never trusts the cache;
// it is still only a pre-check, because the caller's own transaction must
// repeat it.
func (s *StockService) CheckAvailability(ctx context.Context, variantID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	stock, err := s.computeStock(ctx, variantID)
	if err != nil {
		return err
	}
	if stock.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Correct appends a manual correction adjustment. A negative correction
// may not push the stock below zero; the check and the append share one
// transaction.
func (s *StockService) Correct(ctx context.Context, variantID uuid.UUID, req CorrectionRequest) (*StockResponse, error) {
	if req.QuantityChange.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if req.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	var stock decimal.Decimal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		adjustments, err := repos.AdjustmentRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}

		current := s.ledger.ComputeStock(lots, adjustments)
		stock = current.Add(req.QuantityChange)
		if stock.IsNegative() {
			return shared.ErrInsufficientStock
		}

		adjustment, err := inventory.NewAdjustment(
			variantID,
			nil,
			req.QuantityChange,
			inventory.ReasonCorrection,
			inventory.ReferenceManual,
			uuid.New(),
			req.UserID,
		)
		if err != nil {
			return err
		}
		return repos.AdjustmentRepo().Append(ctx, []inventory.Adjustment{*adjustment})
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, variantID)
	}

	return &StockResponse{VariantID: variantID, Stock: stock}, nil
}

// ListAdjustments returns the full adjustment history for a variant,
// oldest first.
func (s *StockService) ListAdjustments(ctx context.Context, variantID uuid.UUID) ([]AdjustmentResponse, error) {
	var adjustments []inventory.Adjustment
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adjustments, err = repos.AdjustmentRepo().FindByVariant(ctx, variantID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return responses, nil
}

// ListLots returns the variant's lots in FIFO order with their remaining
// quantities.
func (s *StockService) ListLots(ctx context.Context, variantID uuid.UUID) ([]LotResponse, error) {
	var responses []LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		adjustments, err := repos.AdjustmentRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}

		responses = make([]LotResponse, len(lots))
		for i := range lots {
			responses[i] = LotResponse{
				ID:          lots[i].ID,
				VariantID:   lots[i].VariantID,
				BatchNumber: lots[i].BatchNumber,
				Quantity:    lots[i].Quantity,
				Remaining:   s.ledger.LotRemaining(&lots[i], adjustments),
				UnitCost:    lots[i].UnitCost,
				ExpiryDate:  lots[i].ExpiryDate,
				CreatedAt:   lots[i].CreatedAt,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return responses, nil
}

func (s *StockService) computeStock(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	var stock decimal.Decimal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		adjustments, err := repos.AdjustmentRepo().FindByVariant(ctx, variantID)
		if err != nil {
			return err
		}
		stock = s.ledger.ComputeStock(lots, adjustments)
		return nil
	})
	return stock, err
}
