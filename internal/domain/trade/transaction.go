package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType classifies a money movement
type TransactionType string

const (
	TransactionTypePayment        TransactionType = "payment"
	TransactionTypeRefund         TransactionType = "refund"
	TransactionTypePurchase       TransactionType = "purchase"
	TransactionTypePurchaseRefund TransactionType = "purchase_refund"
)

// IsValid checks if the type is a known TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePayment, TransactionTypeRefund, TransactionTypePurchase, TransactionTypePurchaseRefund:
		return true
	}
	return false
}

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusVoided    TransactionStatus = "voided"
)

// Transaction is one signed money movement tied to exactly one sale or
// one purchase order. Amounts are signed by cash direction: payments in
// are positive, refunds and purchase costs are negative.
type Transaction struct {
	shared.BaseEntity
	SaleID          *uuid.UUID        `gorm:"type:uuid;index"`
	PurchaseOrderID *uuid.UUID        `gorm:"type:uuid;index"`
	Amount          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Type            TransactionType   `gorm:"type:varchar(20);not null"`
	PaymentMethodID *uuid.UUID        `gorm:"type:uuid"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null"`
	TransactionDate time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction creates a transaction tied to exactly one parent
func NewTransaction(saleID, purchaseOrderID *uuid.UUID, amount decimal.Decimal, txType TransactionType, paymentMethodID *uuid.UUID) (*Transaction, error) {
	if (saleID == nil) == (purchaseOrderID == nil) {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Transaction must reference exactly one of sale or purchase order")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown transaction type")
	}
	if amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be zero")
	}

	return &Transaction{
		BaseEntity:      shared.NewBaseEntity(),
		SaleID:          saleID,
		PurchaseOrderID: purchaseOrderID,
		Amount:          amount,
		Type:            txType,
		PaymentMethodID: paymentMethodID,
		Status:          TransactionStatusCompleted,
		TransactionDate: time.Now(),
	}, nil
}

// NewPaymentTransaction records a customer payment against a sale
func NewPaymentTransaction(saleID uuid.UUID, amount decimal.Decimal, paymentMethodID *uuid.UUID) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	return NewTransaction(&saleID, nil, amount, TransactionTypePayment, paymentMethodID)
}

// NewRefundTransaction records money returned to the customer; the stored
// amount is negative.
func NewRefundTransaction(saleID uuid.UUID, amount decimal.Decimal) (*Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	return NewTransaction(&saleID, nil, amount.Neg(), TransactionTypeRefund, nil)
}

// NewPurchaseTransaction records the cost of a received purchase order;
// the stored amount is negative.
func NewPurchaseTransaction(purchaseOrderID uuid.UUID, totalCost decimal.Decimal) (*Transaction, error) {
	if totalCost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Purchase cost must be positive")
	}
	return NewTransaction(nil, &purchaseOrderID, totalCost.Neg(), TransactionTypePurchase, nil)
}

// IsRefund returns true for refund transactions
func (t *Transaction) IsRefund() bool {
	return t.Type == TransactionTypeRefund
}
