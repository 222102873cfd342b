package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the payment status of a sale
type SaleStatus string

const (
	SaleStatusDraft         SaleStatus = "draft"
	SaleStatusPartiallyPaid SaleStatus = "partially_paid"
	SaleStatusPaid          SaleStatus = "paid"
	SaleStatusCancelled     SaleStatus = "cancelled"
	SaleStatusRefunded      SaleStatus = "refunded"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusPartiallyPaid, SaleStatusPaid, SaleStatusCancelled, SaleStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status accepts no further payments
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCancelled || s == SaleStatusRefunded
}

// FulfillmentStatus tracks goods handover independently of payment
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "pending"
	FulfillmentFulfilled FulfillmentStatus = "fulfilled"
	FulfillmentCancelled FulfillmentStatus = "cancelled"
)

// String returns the string representation of FulfillmentStatus
func (s FulfillmentStatus) String() string {
	return string(s)
}

// Sale is the aggregate root for one sale transaction. Payment status and
// fulfillment status move on independent axes; inventory effects live in
// the adjustment log, referenced by the sale's ID.
type Sale struct {
	shared.BaseAggregateRoot
	InvoiceNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID        *uuid.UUID        `gorm:"type:uuid;index"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null"`
	Items             []SaleItem        `gorm:"foreignKey:SaleID"`
	TotalAmount       decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PaidAmount        decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Discount          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	TotalTax          decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status            SaleStatus        `gorm:"type:varchar(20);not null;index"`
	FulfillmentStatus FulfillmentStatus `gorm:"type:varchar(20);not null"`
	SaleDate          time.Time         `gorm:"not null;index"`
	CancelledAt       *time.Time
	FulfilledAt       *time.Time
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale in draft status
func NewSale(invoiceNumber string, customerID *uuid.UUID, userID uuid.UUID) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		UserID:            userID,
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		PaidAmount:        decimal.Zero,
		Discount:          decimal.Zero,
		TotalTax:          decimal.Zero,
		Status:            SaleStatusDraft,
		FulfillmentStatus: FulfillmentPending,
		SaleDate:          time.Now(),
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// AddItem appends a line to the sale. Items are immutable once the sale
// leaves draft, apart from return bookkeeping.
func (s *Sale) AddItem(item SaleItem) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft sale")
	}
	item.SaleID = s.ID
	s.Items = append(s.Items, item)
	s.UpdatedAt = time.Now()
	return nil
}

// SetFinancials freezes the computed invoice amounts onto the sale
func (s *Sale) SetFinancials(totalAmount, totalTax, discount decimal.Decimal) error {
	if totalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	s.TotalAmount = totalAmount
	s.TotalTax = totalTax
	s.Discount = discount
	s.UpdatedAt = time.Now()
	return nil
}

// RemainingBalance returns how much is still owed on the sale
func (s *Sale) RemainingBalance() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}

// AddPayment records a payment against the sale and resolves the payment
// status from the new paid amount.
func (s *Sale) AddPayment(amount decimal.Decimal) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add payment to a %s sale", s.Status))
	}
	if s.Status == SaleStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Sale is already fully paid")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if s.PaidAmount.Add(amount).GreaterThan(s.TotalAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment would exceed the sale total")
	}

	s.PaidAmount = s.PaidAmount.Add(amount)
	s.resolveStatus()
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSalePaymentAddedEvent(s, amount))

	return nil
}

// Cancel cancels the sale. Stock restoration is the caller's job; the
// aggregate only guards the transition.
func (s *Sale) Cancel() error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s sale", s.Status))
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.FulfillmentStatus = FulfillmentCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// Fulfill marks the goods as handed over. Fulfillment has no payment or
// inventory effect.
func (s *Sale) Fulfill() error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot fulfill a cancelled sale")
	}
	if s.FulfillmentStatus == FulfillmentFulfilled {
		return shared.NewDomainError("INVALID_STATE", "Sale is already fulfilled")
	}

	now := time.Now()
	s.FulfillmentStatus = FulfillmentFulfilled
	s.FulfilledAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleFulfilledEvent(s))

	return nil
}

// ApplyRefund decrements the paid amount for a processed refund. The sale
// flips to refunded only when it was fully paid and the entire paid amount
// has come back; partial refunds keep the current payment status.
func (s *Sale) ApplyRefund(amount decimal.Decimal) error {
	if s.Status == SaleStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot refund a cancelled sale")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	if amount.GreaterThan(s.PaidAmount) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund cannot exceed the paid amount")
	}

	wasPaid := s.Status == SaleStatusPaid
	s.PaidAmount = s.PaidAmount.Sub(amount)
	if wasPaid && s.PaidAmount.IsZero() {
		s.Status = SaleStatusRefunded
	}
	s.UpdatedAt = time.Now()

	s.AddDomainEvent(NewSaleRefundedEvent(s, amount))

	return nil
}

// RecordItemReturn accumulates a returned quantity on the identified line
func (s *Sale) RecordItemReturn(saleItemID uuid.UUID, quantity decimal.Decimal) error {
	item := s.GetItem(saleItemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
	}
	return item.RecordReturn(quantity)
}

// GetItem returns a line by its ID
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// IsPaid returns true if the sale is fully paid
func (s *Sale) IsPaid() bool {
	return s.Status == SaleStatusPaid
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// resolveStatus derives the payment status from paid vs total
func (s *Sale) resolveStatus() {
	switch {
	case s.PaidAmount.GreaterThanOrEqual(s.TotalAmount) && s.TotalAmount.IsPositive():
		s.Status = SaleStatusPaid
	case s.PaidAmount.IsPositive():
		s.Status = SaleStatusPartiallyPaid
	default:
		s.Status = SaleStatusDraft
	}
}

// ResolveStatus re-derives payment status after amounts were set. It is
// exported for creation flows that record payments before the first save.
func (s *Sale) ResolveStatus() {
	s.resolveStatus()
}
