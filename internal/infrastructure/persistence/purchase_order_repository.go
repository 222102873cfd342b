package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// purchaseOrderSortable lists the columns purchase order queries may filter
// and order by
var purchaseOrderSortable = map[string]bool{
	"created_at":   true,
	"order_number": true,
	"status":       true,
	"supplier_id":  true,
}

// GormPurchaseOrderRepository implements PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order by its ID with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var order trade.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds purchase orders with filtering and pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.PurchaseOrder], error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&trade.PurchaseOrder{})
	for key, value := range filter.Filters {
		if purchaseOrderSortable[key] {
			countQuery = countQuery.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []trade.PurchaseOrder
	query := applyFilter(r.db.WithContext(ctx).Model(&trade.PurchaseOrder{}), filter, purchaseOrderSortable)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a purchase order together with its items
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			order.Items[i].PurchaseOrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormPurchaseOrderRepository implements PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
