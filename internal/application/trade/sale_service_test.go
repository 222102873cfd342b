package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/tax"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleService_Create_TaxedSale(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(50, 20, nil)
	h.addStock(variantID, 10, 20)
	h.addItemTaxRule("VAT", 10, 1)

	resp, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantID, Quantity: decimal.NewFromInt(2)},
		},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-1", resp.InvoiceNumber)
	assert.True(t, resp.TotalTax.Equal(decimal.NewFromInt(10)), "tax %s", resp.TotalTax)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(110)), "total %s", resp.TotalAmount)
	assert.Equal(t, "draft", resp.Status)

	// Stock drawn inside the same operation
	assert.True(t, h.stock(variantID).Equal(decimal.NewFromInt(8)))

	// Lines carry the frozen price, cost and rule trace
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].PricePerUnit.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.Items[0].CostPerUnit.Equal(decimal.NewFromInt(20)))
	assert.Contains(t, resp.Items[0].TaxRuleSnapshot, "VAT")
}

func TestSaleService_Create_InsufficientStock(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(10, 5, nil)
	h.addStock(variantID, 10, 5)

	_, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantID, Quantity: decimal.NewFromInt(11)},
		},
		UserID: uuid.New(),
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "Insufficient stock")

	// Nothing was written
	assert.Empty(t, h.saleRepo.sales)
	assert.Empty(t, h.adjRepo.adjustments)
	assert.True(t, h.stock(variantID).Equal(decimal.NewFromInt(10)))
}

func TestSaleService_Create_DiscountDistribution(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantA := h.addVariant(300, 100, nil)
	variantB := h.addVariant(100, 40, nil)
	h.addStock(variantA, 5, 100)
	h.addStock(variantB, 5, 40)

	resp, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantA, Quantity: decimal.NewFromInt(1)},
			{VariantID: variantB, Quantity: decimal.NewFromInt(1)},
		},
		Discount: decimal.NewFromInt(20),
		UserID:   uuid.New(),
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].DiscountAmount.Equal(decimal.NewFromInt(15)), "discount %s", resp.Items[0].DiscountAmount)
	assert.True(t, resp.Items[1].DiscountAmount.Equal(decimal.NewFromInt(5)), "discount %s", resp.Items[1].DiscountAmount)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(380)))
	assert.True(t, resp.Discount.Equal(decimal.NewFromInt(20)))
}

func TestSaleService_Create_WithPayments(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(25, 10, nil)
	h.addStock(variantID, 10, 10)

	resp, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantID, Quantity: decimal.NewFromInt(4)},
		},
		Payments: []PaymentRequest{
			{Amount: decimal.NewFromInt(100)},
		},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, "paid", resp.Status)
	assert.True(t, resp.PaidAmount.Equal(decimal.NewFromInt(100)))

	transactions, err := h.txRepo.FindBySale(ctx, resp.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, trade.TransactionTypePayment, transactions[0].Type)
	assert.True(t, transactions[0].Amount.Equal(decimal.NewFromInt(100)))
}

func TestSaleService_Create_ExemptCustomer(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(50, 20, nil)
	h.addStock(variantID, 10, 20)
	h.addItemTaxRule("VAT", 10, 1)

	customerID := uuid.New()
	h.customers.customers[customerID] = &tax.Customer{ID: customerID, Type: tax.CustomerTypeExempt}

	resp, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantID, Quantity: decimal.NewFromInt(2)},
		},
		CustomerID: &customerID,
		UserID:     uuid.New(),
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalTax.IsZero())
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestSaleService_Create_UnknownVariant(t *testing.T) {
	h := newTestHarness()

	_, err := h.sales.Create(context.Background(), CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		},
		UserID: uuid.New(),
	})
	assert.Error(t, err)
	assert.Empty(t, h.saleRepo.sales)
}

func TestSaleService_Create_InvoiceNumbersAreMonotonic(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(10, 5, nil)
	h.addStock(variantID, 100, 5)

	first, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(1)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)
	second, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(1)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, "INV-1", first.InvoiceNumber)
	assert.Equal(t, "INV-2", second.InvoiceNumber)
}

func TestSaleService_AddPayment(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(50, 20, nil)
	h.addStock(variantID, 10, 20)

	sale, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(2)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	resp, err := h.sales.AddPayment(ctx, sale.ID, AddPaymentRequest{Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)
	assert.Equal(t, "partially_paid", resp.Status)

	resp, err = h.sales.AddPayment(ctx, sale.ID, AddPaymentRequest{Amount: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)

	// Over the balance
	_, err = h.sales.AddPayment(ctx, sale.ID, AddPaymentRequest{Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestSaleService_Cancel_RestoresStock(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(10, 5, nil)
	lotID := h.addStock(variantID, 10, 5)

	sale, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(6)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)
	require.True(t, h.stock(variantID).Equal(decimal.NewFromInt(4)))

	resp, err := h.sales.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)

	// Stock returns to 10, credited to the lot it was drawn from
	assert.True(t, h.stock(variantID).Equal(decimal.NewFromInt(10)))

	var credit *inventory.Adjustment
	for i := range h.adjRepo.adjustments {
		if h.adjRepo.adjustments[i].Reason == inventory.ReasonCancellation {
			credit = &h.adjRepo.adjustments[i]
		}
	}
	require.NotNil(t, credit)
	require.NotNil(t, credit.LotID)
	assert.Equal(t, lotID, *credit.LotID)
	assert.True(t, credit.QuantityChange.Equal(decimal.NewFromInt(6)))
}

func TestSaleService_Cancel_Twice(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(10, 5, nil)
	h.addStock(variantID, 10, 5)

	sale, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(1)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	_, err = h.sales.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	_, err = h.sales.Cancel(ctx, sale.ID)
	assert.Error(t, err)

	// Stock restored exactly once
	assert.True(t, h.stock(variantID).Equal(decimal.NewFromInt(10)))
}

func TestSaleService_Fulfill(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantID := h.addVariant(10, 5, nil)
	h.addStock(variantID, 10, 5)

	sale, err := h.sales.Create(ctx, CreateSaleRequest{
		Items:  []CreateSaleItemRequest{{VariantID: variantID, Quantity: decimal.NewFromInt(2)}},
		UserID: uuid.New(),
	})
	require.NoError(t, err)

	resp, err := h.sales.Fulfill(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "fulfilled", resp.FulfillmentStatus)
	// No inventory effect
	assert.True(t, h.stock(variantID).Equal(decimal.NewFromInt(8)))

	_, err = h.sales.Fulfill(ctx, sale.ID)
	assert.Error(t, err)
}

func TestSaleService_TotalsReconcile(t *testing.T) {
	h := newTestHarness()
	ctx := context.Background()

	variantA := h.addVariant(19.99, 8, nil)
	variantB := h.addVariant(7.49, 3, nil)
	h.addStock(variantA, 10, 8)
	h.addStock(variantB, 10, 3)
	h.addItemTaxRule("VAT", 8.25, 1)

	resp, err := h.sales.Create(ctx, CreateSaleRequest{
		Items: []CreateSaleItemRequest{
			{VariantID: variantA, Quantity: decimal.NewFromInt(3)},
			{VariantID: variantB, Quantity: decimal.NewFromInt(2)},
		},
		Discount: decimal.NewFromFloat(5.00),
		UserID:   uuid.New(),
	})
	require.NoError(t, err)

	// Sum of line gross - discounts + taxes reconciles with the total
	sum := decimal.Zero
	for _, item := range resp.Items {
		sum = sum.Add(item.PricePerUnit.Mul(item.Quantity)).Sub(item.DiscountAmount).Add(item.TaxAmount)
	}
	assert.True(t, sum.Equal(resp.TotalAmount), "sum %s total %s", sum, resp.TotalAmount)
}
