package tax

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one line of the invoice being taxed.
// LineAmount is the discounted pre-tax line total; UnitPrice is used for
// price band matching against ITEM-scope rules.
type InvoiceItem struct {
	Reference  uuid.UUID
	UnitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	LineAmount decimal.Decimal
	CategoryID *uuid.UUID
}

// RuleApplication records one rule applied to a base amount. The ordered
// list of applications is serialized onto the sale item so the computation
// can be audited and replayed after rules change.
type RuleApplication struct {
	RuleID      uuid.UUID       `json:"rule_id"`
	Name        string          `json:"name"`
	Scope       RuleScope       `json:"scope"`
	RatePercent decimal.Decimal `json:"rate_percent"`
	Amount      decimal.Decimal `json:"amount"`
	IsCompound  bool            `json:"is_compound"`
}

// ItemTax is the per-item outcome of an engine pass
type ItemTax struct {
	Reference     uuid.UUID
	Base          decimal.Decimal
	TaxAmount     decimal.Decimal
	EffectiveRate decimal.Decimal
	Applications  []RuleApplication
}

// Result is the outcome of taxing a whole invoice. GrandTotal is
// authoritative; the per-item amounts exist for line snapshots.
type Result struct {
	Subtotal   decimal.Decimal
	TotalTax   decimal.Decimal
	GrandTotal decimal.Decimal
	Items      []ItemTax
}

// Engine evaluates tax rules over an invoice. It is a pure function of
// (profile, rules, items, customer) and performs no I/O.
type Engine struct{}

// NewEngine creates a new tax engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compute taxes the given invoice items against the profile's rules.
// A nil profile means no tax regime is configured and yields zero tax,
// as does an exempt customer. ITEM-scope rules run per line in priority
// order (stable - equal priorities keep insertion order); INVOICE-scope
// rules run once over the tax-inclusive invoice subtotal and are
// distributed back to lines proportionally for snapshot purposes only.
func (e *Engine) Compute(profile *Profile, rules []Rule, items []InvoiceItem, customer *Customer) *Result {
	result := &Result{
		Subtotal:   decimal.Zero,
		TotalTax:   decimal.Zero,
		GrandTotal: decimal.Zero,
		Items:      make([]ItemTax, len(items)),
	}

	for i, item := range items {
		result.Items[i] = ItemTax{
			Reference:     item.Reference,
			Base:          item.LineAmount,
			TaxAmount:     decimal.Zero,
			EffectiveRate: decimal.Zero,
			Applications:  make([]RuleApplication, 0),
		}
		result.Subtotal = result.Subtotal.Add(item.LineAmount)
	}
	result.GrandTotal = result.Subtotal

	if profile == nil || customer.IsExempt() {
		return result
	}

	itemRules, invoiceRules := partitionRules(profile.ID, rules)

	for i, item := range items {
		e.applyItemRules(&result.Items[i], item, itemRules)
		result.TotalTax = result.TotalTax.Add(result.Items[i].TaxAmount)
	}

	invoiceTax := e.applyInvoiceRules(result, invoiceRules)
	result.TotalTax = result.TotalTax.Add(invoiceTax)
	result.GrandTotal = result.Subtotal.Add(result.TotalTax)

	for i := range result.Items {
		result.Items[i].EffectiveRate = effectiveRate(result.Items[i].Base, result.Items[i].TaxAmount)
	}

	return result
}

// applyItemRules runs all matching ITEM-scope rules over one line.
// Simple rules tax the line base; compound rules tax the running subtotal
// including taxes already applied in this pass.
func (e *Engine) applyItemRules(itemTax *ItemTax, item InvoiceItem, rules []Rule) {
	base := item.LineAmount
	running := base

	for i := range rules {
		rule := &rules[i]
		if !rule.MatchesCategory(item.CategoryID) {
			continue
		}
		if !rule.MatchesPrice(item.UnitPrice) {
			continue
		}

		taxBase := base
		if rule.IsCompound {
			taxBase = running
		}
		amount := taxBase.Mul(rule.RatePercent).Div(decimal.NewFromInt(100)).Round(2)

		running = running.Add(amount)
		itemTax.TaxAmount = itemTax.TaxAmount.Add(amount)
		itemTax.Applications = append(itemTax.Applications, RuleApplication{
			RuleID:      rule.ID,
			Name:        rule.Name,
			Scope:       RuleScopeItem,
			RatePercent: rule.RatePercent,
			Amount:      amount,
			IsCompound:  rule.IsCompound,
		})
	}
}

// applyInvoiceRules runs INVOICE-scope rules once over the tax-inclusive
// invoice subtotal, then pushes proportional shares back onto the lines.
// The last line absorbs the rounding remainder so the snapshot sums to the
// authoritative invoice amount exactly. Returns the total invoice-level tax.
func (e *Engine) applyInvoiceRules(result *Result, rules []Rule) decimal.Decimal {
	if len(rules) == 0 || len(result.Items) == 0 {
		return decimal.Zero
	}

	invoiceBase := decimal.Zero
	for i := range result.Items {
		invoiceBase = invoiceBase.Add(result.Items[i].Base).Add(result.Items[i].TaxAmount)
	}

	running := invoiceBase
	totalInvoiceTax := decimal.Zero

	for i := range rules {
		rule := &rules[i]
		if !rule.MatchesPrice(invoiceBase) {
			continue
		}

		taxBase := invoiceBase
		if rule.IsCompound {
			taxBase = running
		}
		amount := taxBase.Mul(rule.RatePercent).Div(decimal.NewFromInt(100)).Round(2)
		running = running.Add(amount)
		totalInvoiceTax = totalInvoiceTax.Add(amount)

		e.distributeInvoiceRule(result, rule, amount, invoiceBase)
	}

	return totalInvoiceTax
}

// distributeInvoiceRule spreads one invoice-level rule amount across the
// lines proportionally to each line's share of the tax-inclusive base.
func (e *Engine) distributeInvoiceRule(result *Result, rule *Rule, amount, invoiceBase decimal.Decimal) {
	if invoiceBase.IsZero() {
		return
	}

	distributed := decimal.Zero
	for i := range result.Items {
		item := &result.Items[i]

		var share decimal.Decimal
		if i == len(result.Items)-1 {
			share = amount.Sub(distributed)
		} else {
			lineBase := item.Base.Add(item.TaxAmount)
			share = amount.Mul(lineBase).Div(invoiceBase).Round(2)
			distributed = distributed.Add(share)
		}

		item.TaxAmount = item.TaxAmount.Add(share)
		item.Applications = append(item.Applications, RuleApplication{
			RuleID:      rule.ID,
			Name:        rule.Name,
			Scope:       RuleScopeInvoice,
			RatePercent: rule.RatePercent,
			Amount:      share,
			IsCompound:  rule.IsCompound,
		})
	}
}

// partitionRules splits the profile's rules by scope, each partition in
// priority order. The sort is stable: rules sharing a priority apply in
// insertion order.
func partitionRules(profileID uuid.UUID, rules []Rule) (itemRules, invoiceRules []Rule) {
	itemRules = make([]Rule, 0, len(rules))
	invoiceRules = make([]Rule, 0)

	for _, rule := range rules {
		if rule.ProfileID != profileID {
			continue
		}
		switch rule.Scope {
		case RuleScopeItem:
			itemRules = append(itemRules, rule)
		case RuleScopeInvoice:
			invoiceRules = append(invoiceRules, rule)
		}
	}

	sort.SliceStable(itemRules, func(i, j int) bool {
		return itemRules[i].Priority < itemRules[j].Priority
	})
	sort.SliceStable(invoiceRules, func(i, j int) bool {
		return invoiceRules[i].Priority < invoiceRules[j].Priority
	})

	return itemRules, invoiceRules
}

func effectiveRate(base, taxAmount decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return taxAmount.Mul(decimal.NewFromInt(100)).Div(base).Round(4)
}
