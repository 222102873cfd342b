package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnItem is one returned line: the sale item it reverses, the
// returned quantity, and the refund owed for it.
type ReturnItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnItem) TableName() string {
	return "return_items"
}

// NewReturnItem creates a new return line
func NewReturnItem(returnID, saleItemID uuid.UUID, quantity, refundAmount decimal.Decimal) (*ReturnItem, error) {
	if saleItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Sale item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if refundAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refund amount cannot be negative")
	}

	return &ReturnItem{
		ID:           uuid.New(),
		ReturnID:     returnID,
		SaleItemID:   saleItemID,
		Quantity:     quantity,
		RefundAmount: refundAmount,
		CreatedAt:    time.Now(),
	}, nil
}

// Return is the aggregate root for one return against one sale
type Return struct {
	shared.BaseAggregateRoot
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reason      string          `gorm:"type:varchar(500)"`
	Items       []ReturnItem    `gorm:"foreignKey:ReturnID"`
	TotalRefund decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// NewReturn creates a new return against a sale
func NewReturn(saleID uuid.UUID, reason string) (*Return, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Sale ID cannot be empty")
	}

	ret := &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		Reason:            reason,
		Items:             make([]ReturnItem, 0),
		TotalRefund:       decimal.Zero,
	}

	return ret, nil
}

// AddItem appends a returned line and accumulates the total refund
func (r *Return) AddItem(saleItemID uuid.UUID, quantity, refundAmount decimal.Decimal) (*ReturnItem, error) {
	item, err := NewReturnItem(r.ID, saleItemID, quantity, refundAmount)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.TotalRefund = r.TotalRefund.Add(refundAmount)
	r.UpdatedAt = time.Now()

	return item, nil
}

// ItemCount returns the number of returned lines
func (r *Return) ItemCount() int {
	return len(r.Items)
}
