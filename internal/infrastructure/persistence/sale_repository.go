package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// saleSortable lists the columns sale queries may filter and order by
var saleSortable = map[string]bool{
	"created_at":     true,
	"sale_date":      true,
	"invoice_number": true,
	"status":         true,
	"customer_id":    true,
	"total_amount":   true,
}

// invoiceCounter is the single-row table backing invoice number allocation
type invoiceCounter struct {
	ID        int   `gorm:"primary_key"`
	LastValue int64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (invoiceCounter) TableName() string {
	return "invoice_counters"
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByInvoiceNumber finds a sale by its invoice number
func (r *GormSaleRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_number = ?", invoiceNumber).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[trade.Sale], error) {
	var total int64
	countQuery := r.db.WithContext(ctx).Model(&trade.Sale{})
	for key, value := range filter.Filters {
		if saleSortable[key] {
			countQuery = countQuery.Where(fmt.Sprintf("%s = ?", key), value)
		}
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var sales []trade.Sale
	query := applyFilter(r.db.WithContext(ctx).Model(&trade.Sale{}), filter, saleSortable)
	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(sales, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a sale together with its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
			if err := tx.Save(&sale.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// NextInvoiceNumber allocates the next invoice number from the counter row.
// The row is locked FOR UPDATE so concurrent sales serialize on it; callers
// run this inside the transaction that saves the sale.
func (r *GormSaleRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	var counter invoiceCounter
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&counter, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = invoiceCounter{ID: 1, LastValue: 0}
		if err := r.db.WithContext(ctx).Create(&counter).Error; err != nil {
			return "", fmt.Errorf("failed to initialize invoice counter: %w", err)
		}
	} else if err != nil {
		return "", err
	}

	counter.LastValue++
	if err := r.db.WithContext(ctx).Save(&counter).Error; err != nil {
		return "", fmt.Errorf("failed to advance invoice counter: %w", err)
	}

	return fmt.Sprintf("INV-%d", counter.LastValue), nil
}

// Ensure GormSaleRepository implements SaleRepository
var _ trade.SaleRepository = (*GormSaleRepository)(nil)
