package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hafalan-progress-api/internal/middleware"
	"github.com/noah-isme/hafalan-progress-api/internal/progress"
	"github.com/noah-isme/hafalan-progress-api/pkg/response"
)

// SurahHandler serves the static surah catalogue used by entry forms.
type SurahHandler struct{}

// NewSurahHandler constructs SurahHandler.
func NewSurahHandler() *SurahHandler {
	return &SurahHandler{}
}

// List godoc
// @Summary Canonical surah names with their mushaf rank
// @Tags Surahs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /surahs [get]
func (h *SurahHandler) List(c *gin.Context) {
	catalogue := progress.Catalogue()
	middleware.SetCount(c, len(catalogue))
	response.JSON(c, http.StatusOK, catalogue, middleware.ExtractMeta(c))
}
