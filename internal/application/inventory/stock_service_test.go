package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memLotRepo struct {
	lots []inventory.Lot
}

func (r *memLotRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Lot, error) {
	for i := range r.lots {
		if r.lots[i].ID == id {
			lot := r.lots[i]
			return &lot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memLotRepo) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, lot := range r.lots {
		if lot.VariantID == variantID {
			out = append(out, lot)
		}
	}
	return out, nil
}

func (r *memLotRepo) Save(_ context.Context, lot *inventory.Lot) error {
	r.lots = append(r.lots, *lot)
	return nil
}

type memAdjustmentRepo struct {
	adjustments []inventory.Adjustment
}

func (r *memAdjustmentRepo) FindByVariant(_ context.Context, variantID uuid.UUID) ([]inventory.Adjustment, error) {
	var out []inventory.Adjustment
	for _, adj := range r.adjustments {
		if adj.VariantID == variantID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *memAdjustmentRepo) FindByReference(_ context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.Adjustment, error) {
	var out []inventory.Adjustment
	for _, adj := range r.adjustments {
		if adj.ReferenceType == refType && adj.ReferenceID == refID {
			out = append(out, adj)
		}
	}
	return out, nil
}

func (r *memAdjustmentRepo) Append(_ context.Context, adjustments []inventory.Adjustment) error {
	r.adjustments = append(r.adjustments, adjustments...)
	return nil
}

type memStockCache struct {
	values map[uuid.UUID]decimal.Decimal
}

func newMemStockCache() *memStockCache {
	return &memStockCache{values: make(map[uuid.UUID]decimal.Decimal)}
}

func (c *memStockCache) Get(_ context.Context, variantID uuid.UUID) (decimal.Decimal, bool, error) {
	v, ok := c.values[variantID]
	return v, ok, nil
}

func (c *memStockCache) Set(_ context.Context, variantID uuid.UUID, stock decimal.Decimal) error {
	c.values[variantID] = stock
	return nil
}

func (c *memStockCache) Invalidate(_ context.Context, variantID uuid.UUID) error {
	delete(c.values, variantID)
	return nil
}

func seedLot(t *testing.T, repo *memLotRepo, variantID uuid.UUID, quantity float64) uuid.UUID {
	lot, err := inventory.NewLot(variantID, decimal.NewFromFloat(quantity), decimal.NewFromInt(5))
	require.NoError(t, err)
	lot.CreatedAt = time.Now().Add(-time.Hour)
	repo.lots = append(repo.lots, *lot)
	return lot.ID
}

func TestStockService_GetStock(t *testing.T) {
	lotRepo := &memLotRepo{}
	adjRepo := &memAdjustmentRepo{}
	cache := newMemStockCache()
	service := NewStockService(NewNoOpTransactionScope(lotRepo, adjRepo), cache)

	variantID := uuid.New()
	seedLot(t, lotRepo, variantID, 10)

	resp, err := service.GetStock(context.Background(), variantID)
	require.NoError(t, err)
	assert.True(t, resp.Stock.Equal(decimal.NewFromInt(10)))
	assert.False(t, resp.Cached)

	// Second read hits the cache
	resp, err = service.GetStock(context.Background(), variantID)
	require.NoError(t, err)
	assert.True(t, resp.Cached)
}

func TestStockService_CheckAvailability(t *testing.T) {
	lotRepo := &memLotRepo{}
	adjRepo := &memAdjustmentRepo{}
	service := NewStockService(NewNoOpTransactionScope(lotRepo, adjRepo), nil)

	variantID := uuid.New()
	seedLot(t, lotRepo, variantID, 10)

	assert.NoError(t, service.CheckAvailability(context.Background(), variantID, decimal.NewFromInt(10)))
	assert.Error(t, service.CheckAvailability(context.Background(), variantID, decimal.NewFromInt(11)))
	assert.Error(t, service.CheckAvailability(context.Background(), variantID, decimal.Zero))
}

func TestStockService_Correct(t *testing.T) {
	lotRepo := &memLotRepo{}
	adjRepo := &memAdjustmentRepo{}
	cache := newMemStockCache()
	service := NewStockService(NewNoOpTransactionScope(lotRepo, adjRepo), cache)

	variantID := uuid.New()
	seedLot(t, lotRepo, variantID, 10)

	// Warm the cache, then correct; the cache entry must go away
	_, err := service.GetStock(context.Background(), variantID)
	require.NoError(t, err)

	resp, err := service.Correct(context.Background(), variantID, CorrectionRequest{
		QuantityChange: decimal.NewFromInt(-4),
		UserID:         uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, resp.Stock.Equal(decimal.NewFromInt(6)))

	_, cached, err := cache.Get(context.Background(), variantID)
	require.NoError(t, err)
	assert.False(t, cached)

	// The correction is a lot-agnostic append-only record
	require.Len(t, adjRepo.adjustments, 1)
	assert.Nil(t, adjRepo.adjustments[0].LotID)
	assert.Equal(t, inventory.ReasonCorrection, adjRepo.adjustments[0].Reason)
}

func TestStockService_Correct_CannotGoNegative(t *testing.T) {
	lotRepo := &memLotRepo{}
	adjRepo := &memAdjustmentRepo{}
	service := NewStockService(NewNoOpTransactionScope(lotRepo, adjRepo), nil)

	variantID := uuid.New()
	seedLot(t, lotRepo, variantID, 10)

	_, err := service.Correct(context.Background(), variantID, CorrectionRequest{
		QuantityChange: decimal.NewFromInt(-11),
		UserID:         uuid.New(),
	})
	assert.Error(t, err)
	assert.Empty(t, adjRepo.adjustments)
}

func TestStockService_ListLots(t *testing.T) {
	lotRepo := &memLotRepo{}
	adjRepo := &memAdjustmentRepo{}
	service := NewStockService(NewNoOpTransactionScope(lotRepo, adjRepo), nil)

	variantID := uuid.New()
	lotID := seedLot(t, lotRepo, variantID, 10)

	sold, err := inventory.NewAdjustment(variantID, &lotID, decimal.NewFromInt(-4), inventory.ReasonSale, inventory.ReferenceSale, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, adjRepo.Append(context.Background(), []inventory.Adjustment{*sold}))

	lots, err := service.ListLots(context.Background(), variantID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, lots[0].Remaining.Equal(decimal.NewFromInt(6)))
}
