package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/faktura/backend/internal/infrastructure/document"
)

// DocumentHandler serves the tenant's archive of rendered invoice PDFs
type DocumentHandler struct {
	BaseHandler
	archive *document.Archive
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(archive *document.Archive) *DocumentHandler {
	return &DocumentHandler{archive: archive}
}

// List returns the archived document file names for the tenant
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	names, err := h.archive.List(tenantID.String())
	if err != nil {
		h.InternalError(c, "Failed to read document archive")
		return
	}
	h.Success(c, names)
}

// Download streams one archived document
func (h *DocumentHandler) Download(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid tenant")
		return
	}

	data, err := h.archive.Read(tenantID.String(), c.Param("name"))
	if err != nil {
		if os.IsNotExist(err) {
			h.NotFound(c, "Document not found")
			return
		}
		h.BadRequest(c, "Invalid document name")
		return
	}
	c.Data(http.StatusOK, "application/pdf", data)
}

// RegisterRoutes registers all document archive routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.GET("", h.List)
		documents.GET("/:name", h.Download)
	}
}
