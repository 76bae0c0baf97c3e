package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hafalan-progress-api/internal/models"
	"github.com/noah-isme/hafalan-progress-api/internal/service"
	"github.com/noah-isme/hafalan-progress-api/pkg/response"
)

type leaderboardExporter interface {
	Leaderboard(ctx context.Context, state models.StudentFilterState, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler streams leaderboard downloads.
type ExportHandler struct {
	exports leaderboardExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports leaderboardExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Leaderboard godoc
// @Summary Download the leaderboard
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv (default), pdf or xlsx"
// @Param search query string false "Case-insensitive name search"
// @Param grade query []string false "Class labels" collectionFormat(multi)
// @Param teacher query []string false "Teacher labels" collectionFormat(multi)
// @Success 200 {file} file
// @Router /students/leaderboard/export [get]
func (h *ExportHandler) Leaderboard(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(service.ExportFormatCSV)))))
	result, err := h.exports.Leaderboard(c.Request.Context(), filterStateFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Header("X-Export-Rows", strconv.Itoa(result.Rows))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
