package trade

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleService orchestrates the sale lifecycle: creation with tax and
// stock effects, payments, cancellation, fulfillment. Every mutating
// operation runs inside one transaction scope so the stock check and the
// stock draw can never see different snapshots.
type SaleService struct {
	scope          TransactionScope
	catalog        CatalogLookup
	customers      CustomerLookup
	paymentMethods PaymentMethodValidator
	stockGate      StockGate
	profileRepo    tax.ProfileRepository
	ruleRepo       tax.RuleRepository
	stockCache     StockCacheInvalidator
	taxEngine      *tax.Engine
	ledger         *inventory.Ledger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	scope TransactionScope,
	catalog CatalogLookup,
	customers CustomerLookup,
	paymentMethods PaymentMethodValidator,
	stockGate StockGate,
	profileRepo tax.ProfileRepository,
	ruleRepo tax.RuleRepository,
) *SaleService {
	return &SaleService{
		scope:          scope,
		catalog:        catalog,
		customers:      customers,
		paymentMethods: paymentMethods,
		stockGate:      stockGate,
		profileRepo:    profileRepo,
		ruleRepo:       ruleRepo,
		taxEngine:      tax.NewEngine(),
		ledger:         inventory.NewLedger(),
	}
}

// SetStockCache attaches an optional stock cache so stock-changing
// operations invalidate stale display entries after they commit.
func (s *SaleService) SetStockCache(cache StockCacheInvalidator) {
	s.stockCache = cache
}

// saleLine is the resolved, priced form of one requested line
type saleLine struct {
	variantID uuid.UUID
	quantity  decimal.Decimal
	price     decimal.Decimal
	cost      decimal.Decimal
	category  *uuid.UUID
	discount  decimal.Decimal
	gross     decimal.Decimal
}

// Create creates a sale: resolves catalog prices, distributes the invoice
// discount, computes taxes, then persists the sale with its payments and
// draws stock FIFO, all in one transaction. The invoice number is
// allocated inside that same transaction.
func (s *SaleService) Create(ctx context.Context, req CreateSaleRequest) (*SaleResponse, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Cheap read-only availability pre-check; the authoritative check
	// repeats inside the transaction below.
	for variantID, qty := range quantityByVariant(lines) {
		if err := s.stockGate.CheckAvailability(ctx, variantID, qty); err != nil {
			return nil, err
		}
	}

	bases := make([]decimal.Decimal, len(lines))
	for i := range lines {
		bases[i] = lines[i].gross
	}
	shares, err := trade.DistributeDiscount(bases, req.Discount)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		lines[i].discount = lines[i].discount.Add(shares[i])
	}

	taxResult, err := s.computeTax(ctx, lines, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var sale *trade.Sale
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.SaleRepo().NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		sale, err = trade.NewSale(invoiceNumber, req.CustomerID, req.UserID)
		if err != nil {
			return err
		}

		for i := range lines {
			item, err := trade.NewSaleItem(sale.ID, lines[i].variantID, lines[i].quantity, lines[i].price, lines[i].cost)
			if err != nil {
				return err
			}
			if err := item.ApplyDiscount(lines[i].discount); err != nil {
				return err
			}

			snapshot, err := json.Marshal(taxResult.Items[i].Applications)
			if err != nil {
				return err
			}
			item.SetTax(taxResult.Items[i].EffectiveRate, taxResult.Items[i].TaxAmount, string(snapshot))

			if err := sale.AddItem(*item); err != nil {
				return err
			}
		}

		if err := sale.SetFinancials(taxResult.GrandTotal, taxResult.TotalTax, req.Discount); err != nil {
			return err
		}

		for _, payment := range req.Payments {
			if err := sale.AddPayment(payment.Amount); err != nil {
				return err
			}
		}

		// Authoritative stock check and draw, against this transaction's
		// snapshot.
		for variantID, qty := range quantityByVariant(lines) {
			if err := s.consumeStock(ctx, repos, variantID, qty, sale.ID, req.UserID); err != nil {
				return err
			}
		}

		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		for _, payment := range req.Payments {
			tx, err := trade.NewPaymentTransaction(sale.ID, payment.Amount, payment.PaymentMethodID)
			if err != nil {
				return err
			}
			if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateStock(ctx, s.stockCache, variantIDs(lines))

	response := ToSaleResponse(sale)
	return &response, nil
}

// AddPayment records a payment against an existing sale
func (s *SaleService) AddPayment(ctx context.Context, saleID uuid.UUID, req AddPaymentRequest) (*PaymentResponse, error) {
	if req.PaymentMethodID != nil {
		if err := s.paymentMethods.Validate(ctx, *req.PaymentMethodID); err != nil {
			return nil, err
		}
	}

	var response PaymentResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		if err := sale.AddPayment(req.Amount); err != nil {
			return err
		}
		if err := repos.SaleRepo().Save(ctx, sale); err != nil {
			return err
		}

		tx, err := trade.NewPaymentTransaction(sale.ID, req.Amount, req.PaymentMethodID)
		if err != nil {
			return err
		}
		if err := repos.TransactionRepo().Save(ctx, tx); err != nil {
			return err
		}

		response = PaymentResponse{PaidAmount: sale.PaidAmount, Status: sale.Status.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// Cancel cancels a sale and restores the stock it consumed to the same
// lots it was drawn from. Quantities already returned stay restored by
// their returns and are not credited twice.
func (s *SaleService) Cancel(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}

		if err := sale.Cancel(); err != nil {
			return err
		}

		consumed, err := repos.AdjustmentRepo().FindByReference(ctx, inventory.ReferenceSale, sale.ID)
		if err != nil {
			return err
		}

		for variantID, qty := range remainingByVariant(sale) {
			if qty.LessThanOrEqual(decimal.Zero) {
				continue
			}
			drains := drainsForVariant(consumed, variantID)
			restored, err := s.ledger.Restore(drains, qty, inventory.ReasonCancellation, inventory.ReferenceSale, sale.ID, sale.UserID)
			if err != nil {
				return err
			}
			if err := repos.AdjustmentRepo().Append(ctx, restored); err != nil {
				return err
			}
		}

		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	restoredVariants := make([]uuid.UUID, 0, len(sale.Items))
	for i := range sale.Items {
		restoredVariants = append(restoredVariants, sale.Items[i].VariantID)
	}
	invalidateStock(ctx, s.stockCache, restoredVariants)

	response := ToSaleResponse(sale)
	return &response, nil
}

// Fulfill marks the sale's goods as handed over
func (s *SaleService) Fulfill(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if err := sale.Fulfill(); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, saleID uuid.UUID) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sale, err = repos.SaleRepo().FindByID(ctx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Status != nil {
		domainFilter.Filters["status"] = *filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	var page *shared.Paginated[trade.Sale]
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		page, err = repos.SaleRepo().FindAll(ctx, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(page.Items))
	for i := range page.Items {
		responses[i] = ToSaleResponse(&page.Items[i])
	}
	return responses, page.Total, nil
}

func (s *SaleService) validateCreate(ctx context.Context, req CreateSaleRequest) error {
	if len(req.Items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Sale must have at least one item")
	}
	if req.UserID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if req.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	for _, item := range req.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if item.LineDiscount.IsNegative() {
			return shared.NewDomainError("INVALID_DISCOUNT", "Line discount cannot be negative")
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
	}
	for _, payment := range req.Payments {
		if payment.Amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
		}
		if payment.PaymentMethodID != nil {
			if err := s.paymentMethods.Validate(ctx, *payment.PaymentMethodID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *SaleService) resolveLines(ctx context.Context, items []CreateSaleItemRequest) ([]saleLine, error) {
	lines := make([]saleLine, len(items))
	for i, item := range items {
		info, err := s.catalog.FindVariant(ctx, item.VariantID)
		if err != nil {
			return nil, err
		}

		price := info.Price
		if item.UnitPrice != nil {
			price = *item.UnitPrice
		}

		gross := price.Mul(item.Quantity).Sub(item.LineDiscount)
		if gross.IsNegative() {
			gross = decimal.Zero
		}

		lines[i] = saleLine{
			variantID: item.VariantID,
			quantity:  item.Quantity,
			price:     price,
			cost:      info.Cost,
			category:  info.TaxCategoryID,
			discount:  item.LineDiscount,
			gross:     gross,
		}
	}
	return lines, nil
}

func (s *SaleService) computeTax(ctx context.Context, lines []saleLine, customerID *uuid.UUID) (*tax.Result, error) {
	profile, err := s.profileRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	var rules []tax.Rule
	if profile != nil {
		rules, err = s.ruleRepo.FindByProfile(ctx, profile.ID)
		if err != nil {
			return nil, err
		}
	}

	var customer *tax.Customer
	if customerID != nil {
		customer, err = s.customers.FindCustomer(ctx, *customerID)
		if err != nil {
			return nil, err
		}
	}

	invoiceItems := make([]tax.InvoiceItem, len(lines))
	for i := range lines {
		base := lines[i].price.Mul(lines[i].quantity).Sub(lines[i].discount)
		if base.IsNegative() {
			base = decimal.Zero
		}
		invoiceItems[i] = tax.InvoiceItem{
			Reference:  lines[i].variantID,
			UnitPrice:  lines[i].price,
			Quantity:   lines[i].quantity,
			LineAmount: base,
			CategoryID: lines[i].category,
		}
	}

	return s.taxEngine.Compute(profile, rules, invoiceItems, customer), nil
}

// consumeStock performs the FIFO draw for one variant inside the current
// transaction
func (s *SaleService) consumeStock(ctx context.Context, repos TransactionalRepositories, variantID uuid.UUID, quantity decimal.Decimal, saleID, userID uuid.UUID) error {
	lots, err := repos.LotRepo().FindByVariant(ctx, variantID)
	if err != nil {
		return err
	}
	adjustments, err := repos.AdjustmentRepo().FindByVariant(ctx, variantID)
	if err != nil {
		return err
	}

	consumed, err := s.ledger.Consume(lots, adjustments, quantity, inventory.ReasonSale, inventory.ReferenceSale, saleID, userID)
	if err != nil {
		return err
	}
	return repos.AdjustmentRepo().Append(ctx, consumed)
}

// variantIDs lists the variants touched by the resolved lines
func variantIDs(lines []saleLine) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i := range lines {
		ids[i] = lines[i].variantID
	}
	return ids
}

// quantityByVariant aggregates requested quantities per variant so a sale
// with two lines of the same variant draws stock once.
func quantityByVariant(lines []saleLine) map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for i := range lines {
		totals[lines[i].variantID] = totals[lines[i].variantID].Add(lines[i].quantity)
	}
	return totals
}

// remainingByVariant sums each variant's not-yet-returned quantity on the
// sale, which is what cancellation must restore.
func remainingByVariant(sale *trade.Sale) map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for i := range sale.Items {
		item := &sale.Items[i]
		totals[item.VariantID] = totals[item.VariantID].Add(item.Quantity.Sub(item.ReturnedQuantity))
	}
	return totals
}

// drainsForVariant filters a reference's consumption records down to one
// variant
func drainsForVariant(adjustments []inventory.Adjustment, variantID uuid.UUID) []inventory.Adjustment {
	drains := make([]inventory.Adjustment, 0, len(adjustments))
	for i := range adjustments {
		if adjustments[i].VariantID == variantID && adjustments[i].QuantityChange.IsNegative() {
			drains = append(drains, adjustments[i])
		}
	}
	return drains
}
