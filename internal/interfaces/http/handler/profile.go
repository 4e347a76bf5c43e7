package handler

import (
	"github.com/gin-gonic/gin"

	invoicingapp "github.com/faktura/backend/internal/application/invoicing"
)

// ProfileHandler handles the tenant's company profile
type ProfileHandler struct {
	BaseHandler
	profileService *invoicingapp.CompanyProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *invoicingapp.CompanyProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get returns the tenant's profile, provisioning defaults on first access
func (h *ProfileHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	resp, err := h.profileService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update applies a partial update to the tenant's profile
func (h *ProfileHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	var req invoicingapp.UpdateCompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.profileService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers all profile routes
func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup) {
	profile := rg.Group("/profile")
	{
		profile.GET("", h.Get)
		profile.PUT("", h.Update)
	}
}
