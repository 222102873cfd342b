package tax

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProfile(t *testing.T) *Profile {
	profile, err := NewProfile("US Standard", "Standard rates")
	require.NoError(t, err)
	profile.Activate()
	return profile
}

func createTestRule(t *testing.T, profileID uuid.UUID, name string, scope RuleScope, rate float64, priority int) Rule {
	rule, err := NewRule(profileID, name, scope, decimal.NewFromFloat(rate), priority)
	require.NoError(t, err)
	return *rule
}

func invoiceItem(unitPrice, quantity float64) InvoiceItem {
	price := decimal.NewFromFloat(unitPrice)
	qty := decimal.NewFromFloat(quantity)
	return InvoiceItem{
		Reference:  uuid.New(),
		UnitPrice:  price,
		Quantity:   qty,
		LineAmount: price.Mul(qty),
	}
}

func TestEngine_Compute_SimpleItemRule(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "Sales Tax", RuleScopeItem, 10, 0)}

	// 2 units at $50 with a 10% simple rule
	result := engine.Compute(profile, rules, []InvoiceItem{invoiceItem(50, 2)}, nil)

	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", result.Subtotal)
	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(10)), "tax %s", result.TotalTax)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(110)), "total %s", result.GrandTotal)
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].TaxAmount.Equal(decimal.NewFromInt(10)))
	require.Len(t, result.Items[0].Applications, 1)
	assert.Equal(t, "Sales Tax", result.Items[0].Applications[0].Name)
	assert.False(t, result.Items[0].Applications[0].IsCompound)
}

func TestEngine_Compute_NoProfileMeansZeroTax(t *testing.T) {
	engine := NewEngine()

	result := engine.Compute(nil, nil, []InvoiceItem{invoiceItem(50, 2)}, nil)

	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(100)))
	require.Len(t, result.Items, 1)
	assert.Empty(t, result.Items[0].Applications)
}

func TestEngine_Compute_ExemptCustomer(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "Sales Tax", RuleScopeItem, 10, 0)}
	customer := &Customer{ID: uuid.New(), Type: CustomerTypeExempt}

	result := engine.Compute(profile, rules, []InvoiceItem{invoiceItem(50, 2)}, customer)

	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(100)))
}

func TestEngine_Compute_NoMatchingRuleIsNotAnError(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)

	categoryID := uuid.New()
	rule := createTestRule(t, profile.ID, "Luxury Tax", RuleScopeItem, 20, 0)
	rule.ScopeToCategory(categoryID)

	// Item with no category does not match a category-scoped rule
	result := engine.Compute(profile, []Rule{rule}, []InvoiceItem{invoiceItem(50, 2)}, nil)

	assert.True(t, result.TotalTax.IsZero())
	assert.Empty(t, result.Items[0].Applications)
}

func TestEngine_Compute_NilCategoryRuleMatchesEverything(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "VAT", RuleScopeItem, 10, 0)}

	categoryID := uuid.New()
	item := invoiceItem(100, 1)
	item.CategoryID = &categoryID

	result := engine.Compute(profile, rules, []InvoiceItem{item}, nil)

	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(10)))
}

func TestEngine_Compute_PriceBand(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)

	min := decimal.NewFromInt(100)
	rule := createTestRule(t, profile.ID, "Luxury Tax", RuleScopeItem, 15, 0)
	require.NoError(t, rule.SetPriceBand(&min, nil))
	rules := []Rule{rule}

	t.Run("below band", func(t *testing.T) {
		result := engine.Compute(profile, rules, []InvoiceItem{invoiceItem(50, 2)}, nil)
		assert.True(t, result.TotalTax.IsZero())
	})

	t.Run("within band", func(t *testing.T) {
		result := engine.Compute(profile, rules, []InvoiceItem{invoiceItem(200, 1)}, nil)
		assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(30)), "tax %s", result.TotalTax)
	})

	t.Run("band matches unit price, not discounted line amount", func(t *testing.T) {
		// Unit price 200 stays in the band even when discounts push the
		// taxable base below the band minimum
		item := invoiceItem(200, 1)
		item.LineAmount = decimal.NewFromInt(80)

		result := engine.Compute(profile, rules, []InvoiceItem{item}, nil)

		assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(12)), "tax %s", result.TotalTax)
	})
}

func TestEngine_Compute_CompoundRule(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)

	simple := createTestRule(t, profile.ID, "GST", RuleScopeItem, 10, 0)
	compound := createTestRule(t, profile.ID, "PST", RuleScopeItem, 5, 1)
	compound.MarkCompound()

	// $100 base: GST = 10.00, PST = 5% of 110.00 = 5.50
	result := engine.Compute(profile, []Rule{simple, compound}, []InvoiceItem{invoiceItem(100, 1)}, nil)

	assert.True(t, result.TotalTax.Equal(decimal.NewFromFloat(15.50)), "tax %s", result.TotalTax)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromFloat(115.50)))
	require.Len(t, result.Items[0].Applications, 2)
	assert.True(t, result.Items[0].Applications[1].Amount.Equal(decimal.NewFromFloat(5.50)))
}

func TestEngine_Compute_PriorityOrdersApplication(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)

	// Compound rule has lower priority so it runs first, before the
	// simple rule adds anything to the running subtotal.
	compound := createTestRule(t, profile.ID, "First", RuleScopeItem, 5, 0)
	compound.MarkCompound()
	simple := createTestRule(t, profile.ID, "Second", RuleScopeItem, 10, 1)

	result := engine.Compute(profile, []Rule{simple, compound}, []InvoiceItem{invoiceItem(100, 1)}, nil)

	require.Len(t, result.Items[0].Applications, 2)
	assert.Equal(t, "First", result.Items[0].Applications[0].Name)
	// Compound over untouched base = 5.00, then simple 10.00
	assert.True(t, result.Items[0].Applications[0].Amount.Equal(decimal.NewFromInt(5)))
	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(15)))
}

func TestEngine_Compute_SamePriorityKeepsInsertionOrder(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)

	first := createTestRule(t, profile.ID, "A", RuleScopeItem, 10, 5)
	second := createTestRule(t, profile.ID, "B", RuleScopeItem, 5, 5)

	result := engine.Compute(profile, []Rule{first, second}, []InvoiceItem{invoiceItem(100, 1)}, nil)

	require.Len(t, result.Items[0].Applications, 2)
	assert.Equal(t, "A", result.Items[0].Applications[0].Name)
	assert.Equal(t, "B", result.Items[0].Applications[1].Name)
}

func TestEngine_Compute_InvoiceRuleDistribution(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "Invoice Levy", RuleScopeInvoice, 5, 0)}

	// Two lines of $300 and $100; 5% of $400 = $20, split 15/5
	items := []InvoiceItem{invoiceItem(300, 1), invoiceItem(100, 1)}
	result := engine.Compute(profile, rules, items, nil)

	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(20)), "tax %s", result.TotalTax)
	assert.True(t, result.GrandTotal.Equal(decimal.NewFromInt(420)))

	assert.True(t, result.Items[0].TaxAmount.Equal(decimal.NewFromInt(15)))
	assert.True(t, result.Items[1].TaxAmount.Equal(decimal.NewFromInt(5)))

	// Snapshot shares always sum to the authoritative invoice amount
	sum := result.Items[0].TaxAmount.Add(result.Items[1].TaxAmount)
	assert.True(t, sum.Equal(decimal.NewFromInt(20)))
}

func TestEngine_Compute_InvoiceRuleRemainderGoesToLastLine(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "Invoice Levy", RuleScopeInvoice, 10, 0)}

	// Three equal thirds force rounding on the distributed shares
	items := []InvoiceItem{invoiceItem(33.33, 1), invoiceItem(33.33, 1), invoiceItem(33.34, 1)}
	result := engine.Compute(profile, rules, items, nil)

	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(10)), "tax %s", result.TotalTax)

	sum := decimal.Zero
	for _, item := range result.Items {
		sum = sum.Add(item.TaxAmount)
	}
	assert.True(t, sum.Equal(result.TotalTax), "snapshot sum %s vs total %s", sum, result.TotalTax)
}

func TestEngine_Compute_RulesFromOtherProfilesIgnored(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	foreign := createTestRule(t, uuid.New(), "Foreign", RuleScopeItem, 50, 0)
	local := createTestRule(t, profile.ID, "Local", RuleScopeItem, 10, 0)

	result := engine.Compute(profile, []Rule{foreign, local}, []InvoiceItem{invoiceItem(100, 1)}, nil)

	assert.True(t, result.TotalTax.Equal(decimal.NewFromInt(10)))
	require.Len(t, result.Items[0].Applications, 1)
	assert.Equal(t, "Local", result.Items[0].Applications[0].Name)
}

func TestEngine_Compute_EmptyInvoice(t *testing.T) {
	engine := NewEngine()
	profile := createTestProfile(t)
	rules := []Rule{createTestRule(t, profile.ID, "Invoice Levy", RuleScopeInvoice, 5, 0)}

	result := engine.Compute(profile, rules, nil, nil)

	assert.True(t, result.Subtotal.IsZero())
	assert.True(t, result.TotalTax.IsZero())
	assert.True(t, result.GrandTotal.IsZero())
}

func TestNewRule_Validation(t *testing.T) {
	profileID := uuid.New()

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRule(profileID, "", RuleScopeItem, decimal.NewFromInt(10), 0)
		assert.Error(t, err)
	})

	t.Run("rejects invalid scope", func(t *testing.T) {
		_, err := NewRule(profileID, "Tax", RuleScope("LINE"), decimal.NewFromInt(10), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		_, err := NewRule(profileID, "Tax", RuleScopeItem, decimal.NewFromInt(-1), 0)
		assert.Error(t, err)
	})

	t.Run("rejects inverted price band", func(t *testing.T) {
		rule, err := NewRule(profileID, "Tax", RuleScopeItem, decimal.NewFromInt(10), 0)
		require.NoError(t, err)
		min := decimal.NewFromInt(100)
		max := decimal.NewFromInt(50)
		assert.Error(t, rule.SetPriceBand(&min, &max))
	})
}
