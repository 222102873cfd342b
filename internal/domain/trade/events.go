package trade

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the trade context
const (
	EventSaleCreated            = "trade.sale.created"
	EventSalePaymentAdded       = "trade.sale.payment_added"
	EventSaleCancelled          = "trade.sale.cancelled"
	EventSaleFulfilled          = "trade.sale.fulfilled"
	EventSaleRefunded           = "trade.sale.refunded"
	EventPurchaseOrderReceived  = "trade.purchase_order.received"
	EventPurchaseOrderCancelled = "trade.purchase_order.cancelled"
	EventReturnCreated          = "trade.return.created"
)

// SaleCreatedEvent is raised when a new sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	UserID        uuid.UUID       `json:"user_id"`
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(sale *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleCreated, "Sale", sale.ID),
		InvoiceNumber:   sale.InvoiceNumber,
		TotalAmount:     sale.TotalAmount,
		UserID:          sale.UserID,
	}
}

// SalePaymentAddedEvent is raised when a payment is recorded on a sale
type SalePaymentAddedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        SaleStatus      `json:"status"`
}

// NewSalePaymentAddedEvent creates a new SalePaymentAddedEvent
func NewSalePaymentAddedEvent(sale *Sale, amount decimal.Decimal) *SalePaymentAddedEvent {
	return &SalePaymentAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSalePaymentAdded, "Sale", sale.ID),
		InvoiceNumber:   sale.InvoiceNumber,
		Amount:          amount,
		PaidAmount:      sale.PaidAmount,
		Status:          sale.Status,
	}
}

// SaleCancelledEvent is raised when a sale is cancelled
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(sale *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleCancelled, "Sale", sale.ID),
		InvoiceNumber:   sale.InvoiceNumber,
	}
}

// SaleFulfilledEvent is raised when a sale's goods are handed over
type SaleFulfilledEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string `json:"invoice_number"`
}

// NewSaleFulfilledEvent creates a new SaleFulfilledEvent
func NewSaleFulfilledEvent(sale *Sale) *SaleFulfilledEvent {
	return &SaleFulfilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleFulfilled, "Sale", sale.ID),
		InvoiceNumber:   sale.InvoiceNumber,
	}
}

// SaleRefundedEvent is raised when a refund is applied to a sale
type SaleRefundedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        SaleStatus      `json:"status"`
}

// NewSaleRefundedEvent creates a new SaleRefundedEvent
func NewSaleRefundedEvent(sale *Sale, amount decimal.Decimal) *SaleRefundedEvent {
	return &SaleRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSaleRefunded, "Sale", sale.ID),
		InvoiceNumber:   sale.InvoiceNumber,
		Amount:          amount,
		PaidAmount:      sale.PaidAmount,
		Status:          sale.Status,
	}
}

// PurchaseOrderReceivedEvent is raised when an order converts to stock
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	TotalCost   decimal.Decimal `json:"total_cost"`
}

// NewPurchaseOrderReceivedEvent creates a new PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderReceived, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
		TotalCost:       order.TotalCost(),
	}
}

// PurchaseOrderCancelledEvent is raised when a pending order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewPurchaseOrderCancelledEvent creates a new PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventPurchaseOrderCancelled, "PurchaseOrder", order.ID),
		OrderNumber:     order.OrderNumber,
	}
}

// ReturnCreatedEvent is raised when a return is recorded against a sale
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	TotalRefund decimal.Decimal `json:"total_refund"`
	ItemCount   int             `json:"item_count"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(ret *Return) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReturnCreated, "Return", ret.ID),
		SaleID:          ret.SaleID,
		TotalRefund:     ret.TotalRefund,
		ItemCount:       ret.ItemCount(),
	}
}
