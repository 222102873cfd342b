package trade

import (
	"context"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to the repositories a
// ledger mutation touches. Everything executed within one scope shares one
// database transaction and commits or rolls back atomically; in particular
// the stock read, the availability check and the adjustment append all see
// the same snapshot.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all trade and inventory
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// SaleRepo returns the sale repository scoped to the current transaction
	SaleRepo() trade.SaleRepository
	// TransactionRepo returns the money movement repository scoped to the current transaction
	TransactionRepo() trade.TransactionRepository
	// PurchaseOrderRepo returns the purchase order repository scoped to the current transaction
	PurchaseOrderRepo() trade.PurchaseOrderRepository
	// ReturnRepo returns the return repository scoped to the current transaction
	ReturnRepo() trade.ReturnRepository
	// LotRepo returns the inventory lot repository scoped to the current transaction
	LotRepo() inventory.LotRepository
	// AdjustmentRepo returns the adjustment repository scoped to the current transaction
	AdjustmentRepo() inventory.AdjustmentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	saleRepo          trade.SaleRepository
	transactionRepo   trade.TransactionRepository
	purchaseOrderRepo trade.PurchaseOrderRepository
	returnRepo        trade.ReturnRepository
	lotRepo           inventory.LotRepository
	adjustmentRepo    inventory.AdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	saleRepo trade.SaleRepository,
	transactionRepo trade.TransactionRepository,
	purchaseOrderRepo trade.PurchaseOrderRepository,
	returnRepo trade.ReturnRepository,
	lotRepo inventory.LotRepository,
	adjustmentRepo inventory.AdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		saleRepo:          saleRepo,
		transactionRepo:   transactionRepo,
		purchaseOrderRepo: purchaseOrderRepo,
		returnRepo:        returnRepo,
		lotRepo:           lotRepo,
		adjustmentRepo:    adjustmentRepo,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SaleRepo returns the sale repository.
func (s *NoOpTransactionScope) SaleRepo() trade.SaleRepository {
	return s.saleRepo
}

// TransactionRepo returns the money movement repository.
func (s *NoOpTransactionScope) TransactionRepo() trade.TransactionRepository {
	return s.transactionRepo
}

// PurchaseOrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) PurchaseOrderRepo() trade.PurchaseOrderRepository {
	return s.purchaseOrderRepo
}

// ReturnRepo returns the return repository.
func (s *NoOpTransactionScope) ReturnRepo() trade.ReturnRepository {
	return s.returnRepo
}

// LotRepo returns the inventory lot repository.
func (s *NoOpTransactionScope) LotRepo() inventory.LotRepository {
	return s.lotRepo
}

// AdjustmentRepo returns the adjustment repository.
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository {
	return s.adjustmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
