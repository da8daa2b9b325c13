package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduMindSolutions/platform-service/internal/services"
	"github.com/eduMindSolutions/platform-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ImportExportHandler struct {
	BaseHandler
	importExportService services.ImportExportService
}

func NewImportExportHandler(importExportService services.ImportExportService, logger utils.Logger) *ImportExportHandler {
	return &ImportExportHandler{
		BaseHandler:         NewBaseHandler(logger),
		importExportService: importExportService,
	}
}

// ExportQuestions streams an assessment type's questions as an xlsx download.
func (h *ImportExportHandler) ExportQuestions(c *gin.Context) {
	assessmentTypeID := h.parseIDParam(c, "id")
	if assessmentTypeID == 0 {
		return
	}

	data, err := h.importExportService.ExportQuestions(c.Request.Context(), assessmentTypeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment_%d_questions.xlsx", assessmentTypeID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ImportQuestions accepts an xlsx upload and creates its valid rows as
// questions. Row errors come back in the summary with a 200; only a fully
// unreadable file is a 400.
func (h *ImportExportHandler) ImportQuestions(c *gin.Context) {
	assessmentTypeID := h.parseIDParam(c, "id")
	if assessmentTypeID == 0 {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	summary, err := h.importExportService.ImportQuestions(c.Request.Context(), assessmentTypeID, file)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Processed %s: %d imported, %d failed",
			header.Filename, summary.SuccessCount, summary.ErrorCount),
		Data: summary,
	})
}
