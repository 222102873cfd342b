package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
)

// PurchaseOrderService handles purchase order operations. Receiving an
// order is all-or-nothing: every line converts to a lot plus an audit
// adjustment and the order flips to received in one transaction.
type PurchaseOrderService struct {
	scope      TransactionScope
	catalog    CatalogLookup
	stockCache StockCacheInvalidator
	ledger     *inventory.Ledger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope TransactionScope, catalog CatalogLookup) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:   scope,
		catalog: catalog,
		ledger:  inventory.NewLedger(),
	}
}

// SetStockCache attaches an optional stock cache so receiving an order
// invalidates stale display entries after it commits.
func (s *PurchaseOrderService) SetStockCache(cache StockCacheInvalidator) {
	s.stockCache = cache
}

// Create creates a new pending purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase order must have at least one item")
	}

	// Unknown variants are rejected before anything persists
	for _, item := range req.Items {
		if _, err := s.catalog.FindVariant(ctx, item.VariantID); err != nil {
			return nil, err
		}
	}

	order, err := trade.NewPurchaseOrder(req.OrderNumber, req.SupplierID)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, err := order.AddItem(item.VariantID, item.Quantity, item.UnitCost); err != nil {
			return nil, err
		}
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive converts a pending order into inventory: one lot and one
// confirm_receive adjustment per line, plus a single purchase transaction
// for the total cost. The confirm_receive adjustment exists for the audit
// trail and is excluded from the stock fold because the lot already
// carries the quantity.
func (s *PurchaseOrderService) Receive(ctx context.Context, orderID, userID uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.MarkReceived(); err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]

			lot, err := inventory.NewLot(item.VariantID, item.Quantity, item.UnitCost)
			if err != nil {
				return err
			}
			lot.LinkPurchaseOrderItem(item.ID)
			if err := repos.LotRepo().Save(ctx, lot); err != nil {
				return err
			}

			adjustment, err := inventory.NewAdjustment(
				item.VariantID,
				&lot.ID,
				item.Quantity,
				inventory.ReasonConfirmReceive,
				inventory.ReferencePurchaseOrder,
				order.ID,
				userID,
			)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Append(ctx, []inventory.Adjustment{*adjustment}); err != nil {
				return err
			}
		}

		// A zero-cost receipt (free goods, samples) moves no money and
		// records no transaction.
		if total := order.TotalCost(); total.IsPositive() {
			tx, err := trade.NewPurchaseTransaction(order.ID, total)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
				return err
			}
		}

		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	receivedVariants := make([]uuid.UUID, 0, len(order.Items))
	for i := range order.Items {
		receivedVariants = append(receivedVariants, order.Items[i].VariantID)
	}
	invalidateStock(ctx, s.stockCache, receivedVariants)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels a pending purchase order
func (s *PurchaseOrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with pagination
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) ([]PurchaseOrderResponse, int64, error) {
	var page *shared.Paginated[trade.PurchaseOrder]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.PurchaseOrderRepo().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseOrderResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToPurchaseOrderResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}
