package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ReturnService handles returns against sales: it validates returnable
// quantities, restores stock to the lots the sale drained, and issues the
// refund, all in one transaction.
type ReturnService struct {
	scope      TransactionScope
	stockCache StockCacheInvalidator
	ledger     *inventory.Ledger
}

// NewReturnService creates a new ReturnService
func NewReturnService(scope TransactionScope) *ReturnService {
	return &ReturnService{
		scope:  scope,
		ledger: inventory.NewLedger(),
	}
}

// SetStockCache attaches an optional stock cache so recording a return
// invalidates stale display entries after it commits.
func (s *ReturnService) SetStockCache(cache StockCacheInvalidator) {
	s.stockCache = cache
}

// Create records a return against a sale. Each returned line's refund is
// proportional to the line's frozen net amount, never the current catalog
// price. Fails without writes when any line exceeds its returnable
// remainder or the summed refund exceeds what was actually paid.
func (s *ReturnService) Create(ctx context.Context, saleID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Return must have at least one item")
	}
	if req.UserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	var ret *trade.Return
	returnedVariants := make([]uuid.UUID, 0, len(req.Items))
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.IsCancelled() {
			return shared.NewDomainError("INVALID_STATE", "Cannot return items from a cancelled sale")
		}

		ret, err = trade.NewReturn(sale.ID, req.Reason)
		if err != nil {
			return err
		}

		consumed, err := repos.AdjustmentRepo().FindByReference(ctx, inventory.ReferenceSale, sale.ID)
		if err != nil {
			return err
		}

		for _, line := range req.Items {
			item := sale.GetItem(line.SaleItemID)
			if item == nil {
				return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
			}

			refund := refundForQuantity(item, line.Quantity)

			if err := item.RecordReturn(line.Quantity); err != nil {
				return err
			}
			if _, err := ret.AddItem(item.ID, line.Quantity, refund); err != nil {
				return err
			}

			drains := drainsForVariant(consumed, item.VariantID)
			restored, err := s.ledger.Restore(drains, line.Quantity, inventory.ReasonReturn, inventory.ReferenceReturn, ret.ID, req.UserID)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Append(ctx, restored); err != nil {
				return err
			}
			returnedVariants = append(returnedVariants, item.VariantID)
		}

		if ret.TotalRefund.IsPositive() {
			if err := sale.ApplyRefund(ret.TotalRefund); err != nil {
				return err
			}
			tx, err := trade.NewRefundTransaction(sale.ID, ret.TotalRefund)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
				return err
			}
		}

		if err := repos.ReturnRepo().Save(ctx, ret); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		ret.AddDomainEvent(trade.NewReturnCreatedEvent(ret))
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStock(ctx, s.stockCache, returnedVariants)

	response := ToReturnResponse(ret)
	return &response, nil
}

// GetBySale lists the returns recorded against one sale
func (s *ReturnService) GetBySale(ctx context.Context, saleID uuid.UUID) ([]ReturnResponse, error) {
	var returns []trade.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		returns, err = repos.ReturnRepo().FindBySale(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToReturnResponse(&returns[i])
	}
	return responses, nil
}

// refundForQuantity computes the refund for returning part of a line:
// the line's frozen net amount (discounted base plus tax) scaled by the
// returned share of the original quantity, rounded to cents.
func refundForQuantity(item *trade.SaleItem, quantity decimal.Decimal) decimal.Decimal {
	if item.Quantity.IsZero() {
		return decimal.Zero
	}
	return item.NetAmount().Mul(quantity).Div(item.Quantity).Round(2)
}
