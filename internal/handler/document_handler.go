package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"insurevis/internal/service"
)

// DocumentHandler handles read access to claim documents.
type DocumentHandler struct {
	accessService service.DocumentAccessService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(accessService service.DocumentAccessService) *DocumentHandler {
	return &DocumentHandler{accessService: accessService}
}

// GetURL handles GET /api/v1/documents/:id/url
// @Summary Presigned document URL
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.DocumentURL}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) GetURL(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}

	url, err := h.accessService.GetURL(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, url)
}

// GetContent handles GET /api/v1/documents/:id/content
// @Summary Stream document content
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID (UUID)"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/content [get]
func (h *DocumentHandler) GetContent(c *gin.Context) {
	docID, ok := parseUUIDParam(c, "id", "INVALID_ID")
	if !ok {
		return
	}

	content, err := h.accessService.GetContent(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer content.Body.Close()

	headers := map[string]string{}
	if content.FileName != "" {
		headers["Content-Disposition"] = fmt.Sprintf(`inline; filename=%q`, content.FileName)
	}
	c.DataFromReader(http.StatusOK, -1, content.ContentType, content.Body, headers)
}
