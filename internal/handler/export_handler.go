package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/namostri/catalog_api/internal/models"
	"github.com/namostri/catalog_api/internal/repository"
	"github.com/namostri/catalog_api/internal/service"
	"github.com/namostri/catalog_api/internal/utils"
)

// ExportHandler handles spreadsheet export HTTP endpoints.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportAll handles POST /api/export/excel
func (h *ExportHandler) ExportAll(c *gin.Context) {
	h.export(c, repository.ListFilter{})
}

// exportFilterRequest carries the optional filters for a filtered export.
type exportFilterRequest struct {
	Search string `json:"search"`
	Source string `json:"source"`
	Status string `json:"status"`
}

// ExportFiltered handles POST /api/export/excel/filtered
func (h *ExportHandler) ExportFiltered(c *gin.Context) {
	var req exportFilterRequest
	// An empty body means an unfiltered export.
	_ = c.ShouldBindJSON(&req)

	if req.Source != "" && !models.SourceCode(req.Source).Valid() {
		utils.Error(c, 400, "INVALID_SOURCE", "Source must be 'shopify' or 'amazon'")
		return
	}

	h.export(c, repository.ListFilter{
		Search: req.Search,
		Source: req.Source,
		Status: req.Status,
	})
}

// ExportBySource handles POST /api/export/excel/:source
func (h *ExportHandler) ExportBySource(c *gin.Context) {
	source := models.SourceCode(c.Param("source"))
	if !source.Valid() {
		utils.Error(c, 400, "INVALID_SOURCE", "Source must be 'shopify' or 'amazon'")
		return
	}
	h.export(c, repository.ListFilter{Source: string(source)})
}

func (h *ExportHandler) export(c *gin.Context, filter repository.ListFilter) {
	f, filename, err := h.exportService.Export(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		utils.Error(c, 500, "EXPORT_FAILED", "Failed to export products")
		return
	}

	c.Header("Content-Type", service.ContentTypeXLSX)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	// Stream the workbook straight into the response body.
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to write workbook to response")
	}
}
