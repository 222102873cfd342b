package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles stock-related API endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// GetStock handles GET /inventory/:variant_id/stock
func (h *InventoryHandler) GetStock(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "variant_id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	stock, err := h.stockService.GetStock(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// availabilityResponse reports whether a requested quantity is in stock
type availabilityResponse struct {
	VariantID string          `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Available bool            `json:"available"`
}

// CheckAvailability handles GET /inventory/:variant_id/availability
func (h *InventoryHandler) CheckAvailability(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "variant_id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	quantity, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		h.BadRequest(c, "Invalid quantity")
		return
	}

	response := availabilityResponse{
		VariantID: variantID.String(),
		Quantity:  quantity,
		Available: true,
	}
	if err := h.stockService.CheckAvailability(c.Request.Context(), variantID, quantity); err != nil {
		response.Available = false
	}

	h.Success(c, response)
}

// Correct handles POST /inventory/:variant_id/corrections
func (h *InventoryHandler) Correct(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "variant_id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	var req inventoryapp.CorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	stock, err := h.stockService.Correct(c.Request.Context(), variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// ListAdjustments handles GET /inventory/:variant_id/adjustments
func (h *InventoryHandler) ListAdjustments(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "variant_id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	adjustments, err := h.stockService.ListAdjustments(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, adjustments)
}

// ListLots handles GET /inventory/:variant_id/lots
func (h *InventoryHandler) ListLots(c *gin.Context) {
	variantID, err := parseUUIDParam(c, "variant_id")
	if err != nil {
		h.BadRequest(c, "Invalid variant ID format")
		return
	}

	lots, err := h.stockService.ListLots(c.Request.Context(), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lots)
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inventory := rg.Group("/inventory")
	{
		inventory.GET("/:variant_id/stock", h.GetStock)
		inventory.GET("/:variant_id/availability", h.CheckAvailability)
		inventory.POST("/:variant_id/corrections", h.Correct)
		inventory.GET("/:variant_id/adjustments", h.ListAdjustments)
		inventory.GET("/:variant_id/lots", h.ListLots)
	}
}
