package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. They implement the
// same interfaces the persistence layer does, wired through a
// NoOpTransactionScope.

type fakeSaleRepo struct {
	sales   map[uuid.UUID]*trade.Sale
	counter int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*trade.Sale)}
}

func (r *fakeSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return sale, nil
}

func (r *fakeSaleRepo) FindByInvoiceNumber(_ context.Context, invoiceNumber string) (*trade.Sale, error) {
	for _, sale := range r.sales {
		if sale.InvoiceNumber == invoiceNumber {
			return sale, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSaleRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[trade.Sale], error) {
	items := make([]trade.Sale, 0, len(r.sales))
	for _, sale := range r.sales {
		items = append(items, *sale)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (r *fakeSaleRepo) Save(_ context.Context, sale *trade.Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeSaleRepo) NextInvoiceNumber(_ context.Context) (string, error) {
	r.counter++
	return fmt.Sprintf("INV-%d", r.counter), nil
}

type fakeTransactionRepo struct {
	transactions []trade.Transaction
}

func (r *fakeTransactionRepo) FindBySale(_ context.Context, saleID uuid.UUID) ([]trade.Transaction, error) {
	var out []trade.Transaction
	for _, tx := range r.transactions {
		if tx.SaleID != nil && *tx.SaleID == saleID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByPurchaseOrder(_ context.Context, orderID uuid.UUID) ([]trade.Transaction, error) {
	var out []trade.Transaction
	for _, tx := range r.transactions {
		if tx.PurchaseOrderID != nil && *tx.PurchaseOrderID == orderID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Save(_ context.Context, tx *trade.Transaction) error {
	r.transactions = append(r.transactions, *tx)
	return nil
}

type fakePurchaseOrderRepo struct {
	orders map[uuid.UUID]*trade.PurchaseOrder
}

func newFakePurchaseOrderRepo() *fakePurchaseOrderRepo {
	return &fakePurchaseOrderRepo{orders: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *fakePurchaseOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakePurchaseOrderRepo) FindAll(_ context.Context, _ shared.Filter) (*shared.Paginated[trade.PurchaseOrder], error) {
	items := make([]trade.PurchaseOrder, 0, len(r.orders))
	for _, order := range r.orders {
		items = append(items, *order)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (r *fakePurchaseOrderRepo) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.orders[order.ID] = order
	return nil
}

type fakeReturnRepo struct {
	returns map[uuid.UUID]*trade.Return
}

func newFakeReturnRepo() *fakeReturnRepo {
	return &fakeReturnRepo{returns: make(map[uuid.UUID]*trade.Return)}
}

func (r *fakeReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Return, error) {
	ret, ok := r.returns[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return ret, nil
}

func (r *fakeReturnRepo) FindBySale(_ context.Context, saleID uuid.UUID) ([]trade.Return, error) {
	var out []trade.Return
	for _, ret := range r.returns {
		if ret.SaleID == saleID {
			out = append(out, *ret)
		}
	}
	return out, nil
}

func (r *fakeReturnRepo) Save(_ context.Context, ret *trade.Return) error {
	r.returns[ret.ID] = ret
	return nil
}

type fakeLotRepo struct {
	lots []inventory.Lot
}

func (r *fakeLotRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Lot, error) {
	for i := range r.lots {
		if r.lots[i].ID == id {
			lot := r.lots[i]
			return &lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeLotRepo) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, lot := range r.lots {
		if lot.VariantID == variantID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *fakeLotRepo) Save(_ context.Context, lot *inventory.Lot) error {
	r.lots = append(r.lots, *lot)
	return nil
}

type fakeAdjustmentRepo struct {
	adjustments []inventory.Adjustment
}

func (r *fakeAdjustmentRepo) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.Adjustment, error) {
	var out []inventory.Adjustment
	for _, adj := range r.adjustments {
		if adj.VariantID == variantID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *fakeAdjustmentRepo) FindByReference(_ context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.Adjustment, error) {
	var out []inventory.Adjustment
	for _, adj := range r.adjustments {
		if adj.ReferenceType == refType && adj.ReferenceID == refID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *fakeAdjustmentRepo) Append(_ context.Context, adjustments []inventory.Adjustment) error {
	r.adjustments = append(r.adjustments, adjustments...)
	return nil
}

type fakeCatalog struct {
	variants map[uuid.UUID]VariantInfo
}

func (c *fakeCatalog) FindVariant(_ context.Context, variantID uuid.UUID) (*VariantInfo, error) {
	info, ok := c.variants[variantID]
	if !ok {
		return nil, shared.ErrReferenceNotFound
	}
	return &info, nil
}

type fakeCustomers struct {
	customers map[uuid.UUID]*tax.Customer
}

func (c *fakeCustomers) FindCustomer(_ context.Context, customerID uuid.UUID) (*tax.Customer, error) {
	customer, ok := c.customers[customerID]
	if !ok {
		return nil, shared.ErrReferenceNotFound
	}
	return customer, nil
}

type fakePaymentMethods struct {
	known map[uuid.UUID]bool
}

func (v *fakePaymentMethods) Validate(_ context.Context, id uuid.UUID) error {
	if v.known != nil && v.known[id] {
		return nil
	}
	if v.known == nil {
		return nil
	}
	return shared.ErrReferenceNotFound
}

// fakeStockGate computes availability over the same in-memory lot and
// adjustment stores the transaction scope serves.
type fakeStockGate struct {
	lotRepo *fakeLotRepo
	adjRepo *fakeAdjustmentRepo
	ledger  *inventory.Ledger
}

func (g *fakeStockGate) CheckAvailability(ctx context.Context, variantID uuid.UUID, quantity decimal.Decimal) error {
	lots, _ := g.lotRepo.FindByVariant(ctx, variantID)
	adjustments, _ := g.adjRepo.FindByVariant(ctx, variantID)
	if g.ledger.ComputeStock(lots, adjustments).LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*tax.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*tax.Profile)}
}

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*tax.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) FindActive(_ context.Context) (*tax.Profile, error) {
	for _, profile := range r.profiles {
		if profile.IsActive {
			return profile, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) FindAll(_ context.Context) ([]tax.Profile, error) {
	out := make([]tax.Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		out = append(out, *profile)
	}
	return out, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, profile *tax.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) DeactivateAll(_ context.Context) error {
	for _, profile := range r.profiles {
		profile.Deactivate()
	}
	return nil
}

type fakeRuleRepo struct {
	rules []tax.Rule
}

func (r *fakeRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*tax.Rule, error) {
	for i := range r.rules {
		if r.rules[i].ID == id {
			rule := r.rules[i]
			return &rule, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRuleRepo) FindByProfile(_ context.Context, profileID uuid.UUID) ([]tax.Rule, error) {
	var out []tax.Rule
	for _, rule := range r.rules {
		if rule.ProfileID == profileID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) Save(_ context.Context, rule *tax.Rule) error {
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeRuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.rules {
		if r.rules[i].ID == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// testHarness bundles the fakes behind a NoOp scope plus the services
// under test.
type testHarness struct {
	saleRepo    *fakeSaleRepo
	txRepo      *fakeTransactionRepo
	poRepo      *fakePurchaseOrderRepo
	returnRepo  *fakeReturnRepo
	lotRepo     *fakeLotRepo
	adjRepo     *fakeAdjustmentRepo
	catalog     *fakeCatalog
	customers   *fakeCustomers
	profileRepo *fakeProfileRepo
	ruleRepo    *fakeRuleRepo
	ledger      *inventory.Ledger

	sales     *SaleService
	purchases *PurchaseOrderService
	returns   *ReturnService
}

func newTestHarness() *testHarness {
	h := &testHarness{
		saleRepo:    newFakeSaleRepo(),
		txRepo:      &fakeTransactionRepo{},
		poRepo:      newFakePurchaseOrderRepo(),
		returnRepo:  newFakeReturnRepo(),
		lotRepo:     &fakeLotRepo{},
		adjRepo:     &fakeAdjustmentRepo{},
		catalog:     &fakeCatalog{variants: make(map[uuid.UUID]VariantInfo)},
		customers:   &fakeCustomers{customers: make(map[uuid.UUID]*tax.Customer)},
		profileRepo: newFakeProfileRepo(),
		ruleRepo:    &fakeRuleRepo{},
		ledger:      inventory.NewLedger(),
	}

	scope := NewNoOpTransactionScope(h.saleRepo, h.txRepo, h.poRepo, h.returnRepo, h.lotRepo, h.adjRepo)
	gate := &fakeStockGate{lotRepo: h.lotRepo, adjRepo: h.adjRepo, ledger: h.ledger}

	h.sales = NewSaleService(scope, h.catalog, h.customers, &fakePaymentMethods{}, gate, h.profileRepo, h.ruleRepo)
	h.purchases = NewPurchaseOrderService(scope, h.catalog)
	h.returns = NewReturnService(scope)

	return h
}

// addVariant registers a catalog variant and returns its ID
func (h *testHarness) addVariant(price, cost float64, categoryID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	h.catalog.variants[id] = VariantInfo{
		VariantID:     id,
		Price:         decimal.NewFromFloat(price),
		Cost:          decimal.NewFromFloat(cost),
		TaxCategoryID: categoryID,
	}
	return id
}

// addStock creates a lot for the variant, aged so FIFO order follows
// insertion order
func (h *testHarness) addStock(variantID uuid.UUID, quantity float64, unitCost float64) uuid.UUID {
	lot, _ := inventory.NewLot(variantID, decimal.NewFromFloat(quantity), decimal.NewFromFloat(unitCost))
	lot.CreatedAt = time.Now().Add(-time.Duration(100-len(h.lotRepo.lots)) * time.Hour)
	h.lotRepo.lots = append(h.lotRepo.lots, *lot)
	return lot.ID
}

// addTaxRule installs an active profile (once) and one ITEM-scope rule
func (h *testHarness) addItemTaxRule(name string, ratePercent float64, priority int) *tax.Rule {
	profile := h.activeProfile()
	rule, _ := tax.NewRule(profile.ID, name, tax.RuleScopeItem, decimal.NewFromFloat(ratePercent), priority)
	h.ruleRepo.rules = append(h.ruleRepo.rules, *rule)
	return rule
}

func (h *testHarness) activeProfile() *tax.Profile {
	for _, p := range h.profileRepo.profiles {
		if p.IsActive {
			return p
		}
	}
	profile, _ := tax.NewProfile("Default", "")
	profile.Activate()
	h.profileRepo.profiles[profile.ID] = profile
	return profile
}

func (h *testHarness) stock(variantID uuid.UUID) decimal.Decimal {
	lots, _ := h.lotRepo.FindByVariant(context.Background(), variantID)
	adjustments, _ := h.adjRepo.FindByVariant(context.Background(), variantID)
	return h.ledger.ComputeStock(lots, adjustments)
}

// fakeStockCacheInvalidator records which variants had their cache dropped
type fakeStockCacheInvalidator struct {
	invalidated []uuid.UUID
}

func (f *fakeStockCacheInvalidator) Invalidate(_ context.Context, variantID uuid.UUID) error {
	f.invalidated = append(f.invalidated, variantID)
	return nil
}
