package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// SaleRepository manages sale persistence
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Sale], error)
	Save(ctx context.Context, sale *Sale) error
	// NextInvoiceNumber allocates the next monotonic invoice number.
	// It must be called inside the same transaction that saves the sale
	// so an aborted sale never burns a visible gap under concurrency.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// TransactionRepository manages money movement records
type TransactionRepository interface {
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Transaction, error)
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]Transaction, error)
	Save(ctx context.Context, transaction *Transaction) error
}

// PurchaseOrderRepository manages purchase order persistence
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[PurchaseOrder], error)
	Save(ctx context.Context, order *PurchaseOrder) error
}

// ReturnRepository manages return persistence
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]Return, error)
	Save(ctx context.Context, ret *Return) error
}
