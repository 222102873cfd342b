package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindBySale returns all money movements recorded against a sale
func (r *GormTransactionRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]trade.Transaction, error) {
	var transactions []trade.Transaction
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("transaction_date asc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByPurchaseOrder returns all money movements recorded against a purchase order
func (r *GormTransactionRepository) FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]trade.Transaction, error) {
	var transactions []trade.Transaction
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("transaction_date asc").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Save creates a transaction record
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *trade.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ trade.TransactionRepository = (*GormTransactionRepository)(nil)
