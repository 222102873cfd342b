package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/pos/backend/internal/application/trade"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// SaleHandler handles sale-related API endpoints
type SaleHandler struct {
	BaseHandler
	saleService   *tradeapp.SaleService
	returnService *tradeapp.ReturnService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *tradeapp.SaleService, returnService *tradeapp.ReturnService) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		returnService: returnService,
	}
}

// Create handles POST /sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.ApplyDefaults()

	filter := tradeapp.SaleListFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &customerID
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, req.Page, req.PageSize)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// AddPayment handles POST /sales/:id/payments
func (h *SaleHandler) AddPayment(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req tradeapp.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payment, err := h.saleService.AddPayment(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payment)
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.Cancel(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// Fulfill handles POST /sales/:id/fulfill
func (h *SaleHandler) Fulfill(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.Fulfill(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// CreateReturn handles POST /sales/:id/returns
func (h *SaleHandler) CreateReturn(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req tradeapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ret, err := h.returnService.Create(c.Request.Context(), saleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ret)
}

// ListReturns handles GET /sales/:id/returns
func (h *SaleHandler) ListReturns(c *gin.Context) {
	saleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	returns, err := h.returnService.GetBySale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, returns)
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.GetByID)
		sales.POST("/:id/payments", h.AddPayment)
		sales.POST("/:id/cancel", h.Cancel)
		sales.POST("/:id/fulfill", h.Fulfill)
		sales.POST("/:id/returns", h.CreateReturn)
		sales.GET("/:id/returns", h.ListReturns)
	}
}
