package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/service"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportHandler struct {
	exports *service.ExportService
}

func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export handles POST /api/v1/exports?mode=standard|google
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_MODE", "Invalid query", err)
		return
	}

	var mode dto.ExportMode
	if req.Mode != "" {
		parsed, err := dto.ParseExportMode(req.Mode)
		if err != nil {
			sendError(c, http.StatusBadRequest, "INVALID_MODE", "Invalid export mode", err)
			return
		}
		mode = parsed
	}

	record, err := h.exports.Export(c.Request.Context(), mode)
	if err != nil {
		sendServiceError(c, "Failed to export numbers", err)
		return
	}

	c.Header("X-Export-ID", record.ID)
	attachment(c, record.FileName, csvContentType, []byte(record.Content))
}

// History handles GET /api/v1/exports
func (h *ExportHandler) History(c *gin.Context) {
	history := h.exports.History()
	summaries := make([]dto.ExportSummary, 0, len(history))
	for _, r := range history {
		summaries = append(summaries, dto.ExportSummary{
			ID:        r.ID,
			FileName:  r.FileName,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
			Count:     r.Count,
			Mode:      r.Mode,
		})
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{
		Exports:     summaries,
		NextCounter: h.exports.NextCounter(),
	})
}

// ClearHistory handles DELETE /api/v1/exports
func (h *ExportHandler) ClearHistory(c *gin.Context) {
	if err := h.exports.ClearHistory(c.Request.Context()); err != nil {
		sendServiceError(c, "Failed to clear export history", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Download handles GET /api/v1/exports/:id
func (h *ExportHandler) Download(c *gin.Context) {
	record, err := h.exports.Download(c.Param("id"))
	if err != nil {
		sendServiceError(c, "Export not found", err)
		return
	}
	attachment(c, record.FileName, csvContentType, []byte(record.Content))
}

// DownloadXLSX handles GET /api/v1/exports/:id/xlsx
func (h *ExportHandler) DownloadXLSX(c *gin.Context) {
	name, data, err := h.exports.RenderXLSX(c.Param("id"))
	if err != nil {
		sendServiceError(c, "Failed to render workbook", err)
		return
	}
	attachment(c, name, xlsxContentType, data)
}

func attachment(c *gin.Context, fileName, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, contentType, data)
}
