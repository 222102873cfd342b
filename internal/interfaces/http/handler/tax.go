package handler

import (
	"github.com/gin-gonic/gin"
	taxapp "github.com/pos/backend/internal/application/tax"
)

// TaxHandler handles tax configuration and simulation API endpoints
type TaxHandler struct {
	BaseHandler
	taxService *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// Calculate handles POST /tax/calculate
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req taxapp.CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.taxService.Calculate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateProfile handles POST /tax/profiles
func (h *TaxHandler) CreateProfile(c *gin.Context) {
	var req taxapp.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.taxService.CreateProfile(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, profile)
}

// ActivateProfile handles POST /tax/profiles/:id/activate
func (h *TaxHandler) ActivateProfile(c *gin.Context) {
	profileID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	profile, err := h.taxService.ActivateProfile(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ListProfiles handles GET /tax/profiles
func (h *TaxHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.taxService.ListProfiles(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profiles)
}

// CreateCategory handles POST /tax/categories
func (h *TaxHandler) CreateCategory(c *gin.Context) {
	var req taxapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	category, err := h.taxService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, category)
}

// ListCategories handles GET /tax/categories
func (h *TaxHandler) ListCategories(c *gin.Context) {
	categories, err := h.taxService.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, categories)
}

// CreateRule handles POST /tax/rules
func (h *TaxHandler) CreateRule(c *gin.Context) {
	var req taxapp.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	rule, err := h.taxService.CreateRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rule)
}

// ListRules handles GET /tax/profiles/:id/rules
func (h *TaxHandler) ListRules(c *gin.Context) {
	profileID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid profile ID format")
		return
	}

	rules, err := h.taxService.ListRules(c.Request.Context(), profileID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rules)
}

// DeleteRule handles DELETE /tax/rules/:id
func (h *TaxHandler) DeleteRule(c *gin.Context) {
	ruleID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid rule ID format")
		return
	}

	if err := h.taxService.DeleteRule(c.Request.Context(), ruleID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all tax routes
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tax := rg.Group("/tax")
	{
		tax.POST("/calculate", h.Calculate)
		tax.POST("/profiles", h.CreateProfile)
		tax.GET("/profiles", h.ListProfiles)
		tax.POST("/profiles/:id/activate", h.ActivateProfile)
		tax.GET("/profiles/:id/rules", h.ListRules)
		tax.POST("/categories", h.CreateCategory)
		tax.GET("/categories", h.ListCategories)
		tax.POST("/rules", h.CreateRule)
		tax.DELETE("/rules/:id", h.DeleteRule)
	}
}
