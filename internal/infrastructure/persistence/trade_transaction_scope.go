package persistence

import (
	"context"

	apptrade "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTradeTransactionScope implements the trade TransactionScope using
// GORM transactions. One Execute call is one database transaction; the
// stock check, the adjustment append and the aggregate saves inside it
// commit or roll back together.
type GormTradeTransactionScope struct {
	db *gorm.DB
}

// NewGormTradeTransactionScope creates a new GormTradeTransactionScope
func NewGormTradeTransactionScope(db *gorm.DB) *GormTradeTransactionScope {
	return &GormTradeTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTradeTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTradeRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTradeRepositories provides access to all repositories within a transaction
type gormTradeRepositories struct {
	tx *gorm.DB
}

// SaleRepo returns the sale repository scoped to the current transaction
func (r *gormTradeRepositories) SaleRepo() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// TransactionRepo returns the money movement repository scoped to the current transaction
func (r *gormTradeRepositories) TransactionRepo() trade.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
func (r *gormTradeRepositories) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// ReturnRepo returns the return repository scoped to the current transaction
func (r *gormTradeRepositories) ReturnRepo() trade.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

// LotRepo returns the lot repository scoped to the current transaction
func (r *gormTradeRepositories) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormTradeRepositories) AdjustmentRepo() inventory.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// Ensure GormTradeTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTradeTransactionScope)(nil)

// Ensure gormTradeRepositories implements TransactionalRepositories
var _ apptrade.TransactionalRepositories = (*gormTradeRepositories)(nil)
