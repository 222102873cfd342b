package persistence

import (
	"context"

	appinventory "github.com/pos/backend/internal/application/inventory"
	"github.com/pos/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormInventoryRepositories{tx: tx}
		return fn(repos)
	})
}

// gormInventoryRepositories provides access to the inventory repositories
// within a transaction
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// LotRepo returns the lot repository scoped to the current transaction
func (r *gormInventoryRepositories) LotRepo() inventory.LotRepository {
	return NewGormLotRepository(r.tx)
}

// AdjustmentRepo returns the adjustment repository scoped to the current transaction
func (r *gormInventoryRepositories) AdjustmentRepo() inventory.AdjustmentRepository {
	return NewGormAdjustmentRepository(r.tx)
}

// Ensure GormInventoryTransactionScope implements TransactionScope
var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)

// Ensure gormInventoryRepositories implements TransactionalRepositories
var _ appinventory.TransactionalRepositories = (*gormInventoryRepositories)(nil)
