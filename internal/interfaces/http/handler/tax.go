package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	taxapp "github.com/faktura/backend/internal/application/taxation"
)

// TaxHandler handles progressive tax configuration and calculation endpoints
type TaxHandler struct {
	BaseHandler
	taxService *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func parseYearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, false
	}
	return year, true
}

// CreateYear configures a new tax year with its bracket set
func (h *TaxHandler) CreateYear(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req taxapp.CreateTaxYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taxService.CreateYear(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetYear returns the configuration for one calendar year
func (h *TaxHandler) GetYear(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	year, ok := parseYearParam(c)
	if !ok {
		h.BadRequest(c, "Invalid year")
		return
	}

	resp, err := h.taxService.GetYear(c.Request.Context(), tenantID, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListYears returns all configured tax years
func (h *TaxHandler) ListYears(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	resp, err := h.taxService.ListYears(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReplaceBrackets swaps a year's bracket set
func (h *TaxHandler) ReplaceBrackets(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	year, ok := parseYearParam(c)
	if !ok {
		h.BadRequest(c, "Invalid year")
		return
	}

	var req taxapp.ReplaceBracketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.taxService.ReplaceBrackets(c.Request.Context(), tenantID, year, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteYear removes a tax year configuration
func (h *TaxHandler) DeleteYear(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	year, ok := parseYearParam(c)
	if !ok {
		h.BadRequest(c, "Invalid year")
		return
	}

	if err := h.taxService.DeleteYear(c.Request.Context(), tenantID, year); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Calculate computes the progressive tax on a given income
func (h *TaxHandler) Calculate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req taxapp.CalculateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.taxService.Calculate(c.Request.Context(), tenantID, req.Year, req.Income)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Overview summarizes a year's paid revenue and the estimated tax on it
func (h *TaxHandler) Overview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}
	year, ok := parseYearParam(c)
	if !ok {
		h.BadRequest(c, "Invalid year")
		return
	}

	resp, err := h.taxService.Overview(c.Request.Context(), tenantID, year)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all tax routes
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tax := rg.Group("/tax")
	{
		tax.POST("/years", h.CreateYear)
		tax.GET("/years", h.ListYears)
		tax.GET("/years/:year", h.GetYear)
		tax.PUT("/years/:year/brackets", h.ReplaceBrackets)
		tax.DELETE("/years/:year", h.DeleteYear)
		tax.GET("/calculate", h.Calculate)
		tax.GET("/overview/:year", h.Overview)
	}
}
