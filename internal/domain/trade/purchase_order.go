package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "received"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// PurchaseOrderItem is one line of a purchase order. Items are immutable
// once the order leaves pending.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order line
func NewPurchaseOrderItem(purchaseOrderID, variantID uuid.UUID, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VARIANT", "Variant ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseOrderItem{
		ID:              uuid.New(),
		PurchaseOrderID: purchaseOrderID,
		VariantID:       variantID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// TotalCost returns quantity * unit cost for the line
func (i *PurchaseOrderItem) TotalCost() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// PurchaseOrder is the aggregate root for incoming stock. Receipt is
// all-or-nothing: the whole order converts to lots in one step or not
// at all.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID  *uuid.UUID          `gorm:"type:uuid;index"`
	Items       []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID"`
	Status      PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	ReceivedAt  *time.Time
	CancelledAt *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new pending purchase order
func NewPurchaseOrder(orderNumber string, supplierID *uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		Items:             make([]PurchaseOrderItem, 0),
		Status:            PurchaseOrderStatusPending,
	}, nil
}

// AddItem appends a line to a pending order
func (o *PurchaseOrder) AddItem(variantID uuid.UUID, quantity, unitCost decimal.Decimal) (*PurchaseOrderItem, error) {
	if o.Status != PurchaseOrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-pending purchase order")
	}

	item, err := NewPurchaseOrderItem(o.ID, variantID, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.UpdatedAt = time.Now()

	return item, nil
}

// TotalCost returns the summed cost of all lines
func (o *PurchaseOrder) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalCost())
	}
	return total
}

// MarkReceived transitions the order to received. The caller creates the
// lots and adjustments in the same transaction.
func (o *PurchaseOrder) MarkReceived() error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive a %s purchase order", o.Status))
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot receive a purchase order without items")
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ReceivedAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))

	return nil
}

// Cancel cancels a pending order
func (o *PurchaseOrder) Cancel() error {
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s purchase order", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o))

	return nil
}

// IsPending returns true if the order has not been received or cancelled
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == PurchaseOrderStatusPending
}

// GetItem returns a line by its ID
func (o *PurchaseOrder) GetItem(itemID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}
