package tax

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/shopspring/decimal"
)

// CustomerLookup resolves customers for exemption checks
type CustomerLookup interface {
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*tax.Customer, error)
}

// TaxService manages tax configuration and answers side-effect-free tax
// simulations against the currently active profile.
type TaxService struct {
	profileRepo  tax.ProfileRepository
	categoryRepo tax.CategoryRepository
	ruleRepo     tax.RuleRepository
	customers    CustomerLookup
	engine       *tax.Engine
}

// NewTaxService creates a new TaxService
func NewTaxService(
	profileRepo tax.ProfileRepository,
	categoryRepo tax.CategoryRepository,
	ruleRepo tax.RuleRepository,
	customers CustomerLookup,
) *TaxService {
	return &TaxService{
		profileRepo:  profileRepo,
		categoryRepo: categoryRepo,
		ruleRepo:     ruleRepo,
		customers:    customers,
		engine:       tax.NewEngine(),
	}
}

// Calculate runs the engine over a hypothetical invoice without touching
// any sale. No active profile means zero tax, not an error.
func (s *TaxService) Calculate(ctx context.Context, req CalculateTaxRequest) (*CalculateTaxResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice must have at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if item.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
		}
	}

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
	if req.CustomerID != nil && s.customers != nil {
		customer, err = s.customers.FindCustomer(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	invoiceItems := make([]tax.InvoiceItem, len(req.Items))
	for i, item := range req.Items {
		invoiceItems[i] = tax.InvoiceItem{
			Reference:  uuid.New(),
			UnitPrice:  item.Price,
			Quantity:   item.Quantity,
			LineAmount: item.Price.Mul(item.Quantity),
			CategoryID: item.TaxCategoryID,
		}
	}

	result := s.engine.Compute(profile, rules, invoiceItems, customer)

	items := make([]CalculatedItemResponse, len(result.Items))
	for i := range result.Items {
		items[i] = CalculatedItemResponse{
			LineAmount:    result.Items[i].Base,
			TaxAmount:     result.Items[i].TaxAmount,
			EffectiveRate: result.Items[i].EffectiveRate,
			AppliedRules:  result.Items[i].Applications,
		}
	}

	return &CalculateTaxResponse{
		Subtotal:   result.Subtotal,
		TotalTax:   result.TotalTax,
		GrandTotal: result.GrandTotal,
		Items:      items,
	}, nil
}

// CreateProfile creates a new inactive tax profile
func (s *TaxService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileResponse, error) {
	profile, err := tax.NewProfile(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	response := ToProfileResponse(profile)
	return &response, nil
}

// ActivateProfile makes the given profile the single active one
func (s *TaxService) ActivateProfile(ctx context.Context, profileID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.profileRepo.DeactivateAll(ctx); err != nil {
		return nil, err
	}
	profile.Activate()
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	response := ToProfileResponse(profile)
	return &response, nil
}

// ListProfiles returns all tax profiles
func (s *TaxService) ListProfiles(ctx context.Context) ([]ProfileResponse, error) {
	profiles, err := s.profileRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = ToProfileResponse(&profiles[i])
	}
	return responses, nil
}

// CreateCategory creates a new tax category
func (s *TaxService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	category, err := tax.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories returns all tax categories
func (s *TaxService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, nil
}

// CreateRule creates a new tax rule under a profile
func (s *TaxService) CreateRule(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	if _, err := s.profileRepo.FindByID(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	rule, err := tax.NewRule(req.ProfileID, req.Name, tax.RuleScope(req.Scope), req.RatePercent, req.Priority)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		rule.ScopeToCategory(*req.CategoryID)
	}
	if req.IsCompound {
		rule.MarkCompound()
	}
	if err := rule.SetPriceBand(req.MinPrice, req.MaxPrice); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	response := ToRuleResponse(rule)
	return &response, nil
}

// ListRules returns the rules of one profile
func (s *TaxService) ListRules(ctx context.Context, profileID uuid.UUID) ([]RuleResponse, error) {
	rules, err := s.ruleRepo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses, nil
}

// DeleteRule removes a rule
func (s *TaxService) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	return s.ruleRepo.Delete(ctx, ruleID)
}
