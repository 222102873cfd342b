package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateSaleItemRequest is one requested sale line. UnitPrice overrides
// the catalog price when set (price negotiation at the till); LineDiscount
// is a per-line discount applied before the invoice-level one.
type CreateSaleItemRequest struct {
	VariantID    uuid.UUID        `json:"variant_id" binding:"required"`
	Quantity     decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	LineDiscount decimal.Decimal  `json:"line_discount"`
}

// PaymentRequest is one payment tendered at sale time
type PaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
}

// CreateSaleRequest is the request to create a sale
type CreateSaleRequest struct {
	Items      []CreateSaleItemRequest `json:"items" binding:"required,min=1"`
	CustomerID *uuid.UUID              `json:"customer_id,omitempty"`
	Discount   decimal.Decimal         `json:"discount"`
	Payments   []PaymentRequest        `json:"payments"`
	UserID     uuid.UUID               `json:"user_id" binding:"required"`
}

// AddPaymentRequest is the request to record a payment on a sale
type AddPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethodID *uuid.UUID      `json:"payment_method_id,omitempty"`
}

// SaleItemResponse is the API shape of a sale line
type SaleItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	VariantID        uuid.UUID       `json:"variant_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TaxRuleSnapshot  string          `json:"tax_rule_snapshot,omitempty"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
}

// SaleResponse is the API shape of a sale
type SaleResponse struct {
	ID                uuid.UUID          `json:"id"`
	InvoiceNumber     string             `json:"invoice_number"`
	CustomerID        *uuid.UUID         `json:"customer_id,omitempty"`
	UserID            uuid.UUID          `json:"user_id"`
	Items             []SaleItemResponse `json:"items"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	PaidAmount        decimal.Decimal    `json:"paid_amount"`
	Discount          decimal.Decimal    `json:"discount"`
	TotalTax          decimal.Decimal    `json:"total_tax"`
	Status            string             `json:"status"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	SaleDate          time.Time          `json:"sale_date"`
}

// PaymentResponse is returned after recording a payment
type PaymentResponse struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Status     string          `json:"status"`
}

// CreatePurchaseOrderItemRequest is one requested purchase line
type CreatePurchaseOrderItemRequest struct {
	VariantID uuid.UUID       `json:"variant_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest is the request to create a purchase order
type CreatePurchaseOrderRequest struct {
	OrderNumber string                           `json:"order_number" binding:"required"`
	SupplierID  *uuid.UUID                       `json:"supplier_id,omitempty"`
	Items       []CreatePurchaseOrderItemRequest `json:"items" binding:"required,min=1"`
}

// PurchaseOrderItemResponse is the API shape of a purchase order line
type PurchaseOrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID          uuid.UUID                   `json:"id"`
	OrderNumber string                      `json:"order_number"`
	SupplierID  *uuid.UUID                  `json:"supplier_id,omitempty"`
	Items       []PurchaseOrderItemResponse `json:"items"`
	Status      string                      `json:"status"`
	TotalCost   decimal.Decimal             `json:"total_cost"`
	ReceivedAt  *time.Time                  `json:"received_at,omitempty"`
}

// CreateReturnItemRequest is one requested return line
type CreateReturnItemRequest struct {
	SaleItemID uuid.UUID       `json:"sale_item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateReturnRequest is the request to return items from a sale
type CreateReturnRequest struct {
	Items  []CreateReturnItemRequest `json:"items" binding:"required,min=1"`
	Reason string                    `json:"reason"`
	UserID uuid.UUID                 `json:"user_id" binding:"required"`
}

// ReturnResponse is returned after recording a return
type ReturnResponse struct {
	ID          uuid.UUID       `json:"id"`
	SaleID      uuid.UUID       `json:"sale_id"`
	TotalRefund decimal.Decimal `json:"total_refund"`
	ItemCount   int             `json:"item_count"`
}

// SaleListFilter carries list query parameters
type SaleListFilter struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
	Search     string     `form:"search"`
	Status     *string    `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
}

// ToSaleItemResponse converts a domain sale item to its API shape
func ToSaleItemResponse(item *trade.SaleItem) SaleItemResponse {
	return SaleItemResponse{
		ID:               item.ID,
		VariantID:        item.VariantID,
		Quantity:         item.Quantity,
		PricePerUnit:     item.PricePerUnit,
		CostPerUnit:      item.CostPerUnit,
		TaxRate:          item.TaxRate,
		TaxAmount:        item.TaxAmount,
		DiscountAmount:   item.DiscountAmount,
		TaxRuleSnapshot:  item.TaxRuleSnapshot,
		ReturnedQuantity: item.ReturnedQuantity,
	}
}

// ToSaleResponse converts a domain sale to its API shape
func ToSaleResponse(sale *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i := range sale.Items {
		items[i] = ToSaleItemResponse(&sale.Items[i])
	}
	return SaleResponse{
		ID:                sale.ID,
		InvoiceNumber:     sale.InvoiceNumber,
		CustomerID:        sale.CustomerID,
		UserID:            sale.UserID,
		Items:             items,
		TotalAmount:       sale.TotalAmount,
		PaidAmount:        sale.PaidAmount,
		Discount:          sale.Discount,
		TotalTax:          sale.TotalTax,
		Status:            sale.Status.String(),
		FulfillmentStatus: sale.FulfillmentStatus.String(),
		SaleDate:          sale.SaleDate,
	}
}

// ToPurchaseOrderResponse converts a domain purchase order to its API shape
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, len(order.Items))
	for i := range order.Items {
		items[i] = PurchaseOrderItemResponse{
			ID:        order.Items[i].ID,
			VariantID: order.Items[i].VariantID,
			Quantity:  order.Items[i].Quantity,
			UnitCost:  order.Items[i].UnitCost,
		}
	}
	return PurchaseOrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		SupplierID:  order.SupplierID,
		Items:       items,
		Status:      order.Status.String(),
		TotalCost:   order.TotalCost(),
		ReceivedAt:  order.ReceivedAt,
	}
}

// ToReturnResponse converts a domain return to its API shape
func ToReturnResponse(ret *trade.Return) ReturnResponse {
	return ReturnResponse{
		ID:          ret.ID,
		SaleID:      ret.SaleID,
		TotalRefund: ret.TotalRefund,
		ItemCount:   ret.ItemCount(),
	}
}
